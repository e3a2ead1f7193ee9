package redis

import (
	"fmt"

	"github.com/bunkerhq/bunker/internal/model"
)

// Key prefix for all bunker data
const keyPrefix = "bunker"

// accountKey returns the Redis key for an Account
func accountKey(username string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, username)
}

// accountsIndexKey returns the Redis key for the SET of all usernames
func accountsIndexKey() string {
	return fmt.Sprintf("%s:idx:accounts", keyPrefix)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomsIndexKey returns the Redis key for the SET of all room ids
func roomsIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// roomsForUserIndexKey returns the Redis key for the SET of room ids the
// user is a member of
func roomsForUserIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:rooms_for_user:%s", keyPrefix, username)
}
