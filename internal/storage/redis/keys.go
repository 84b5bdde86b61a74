package redis

import (
	"fmt"

	"github.com/mcoot/accountsvc/internal/model"
)

// Key prefix for all account data
const keyPrefix = "accountsvc"

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> account_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// accountSetKey returns the Redis key for the SET of live account ids
func accountSetKey() string {
	return fmt.Sprintf("%s:accounts", keyPrefix)
}

// idSequenceKey returns the Redis key for the account id sequence counter.
// The counter only ever increments, so deleted ids are never reused.
func idSequenceKey() string {
	return fmt.Sprintf("%s:seq:account", keyPrefix)
}
