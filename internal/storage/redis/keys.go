package redis

import (
	"fmt"

	"github.com/mcoot/pointsrummy/internal/model"
)

// Key prefix for all rummy data
const keyPrefix = "rummy"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// usersIndexKey returns the Redis key for the SET of all user IDs
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// ledgerKey returns the Redis key for a user's ledger LIST (newest at the head)
func ledgerKey(userID model.UserID) string {
	return fmt.Sprintf("%s:ledger:%s", keyPrefix, userID)
}
