// Package balanceservice owns influencer balances. Mutations happen only
// through idempotent ledger entries so a retried side effect never double
// pays.
package balanceservice
