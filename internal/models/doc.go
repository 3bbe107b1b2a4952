// Package models defines the core domain models for Splitledger.
//
// # Models
//
//   - Participant: A person taking part in a shared ledger
//   - Expense: A recorded shared cost with a payer and a split policy
//   - Split: The tagged split-policy variant (equal, exact, percentage)
//   - Payment: One settling transfer in a settlement plan
//
// # Design Principles
//
//  1. **Exact arithmetic**: All amounts are money.Money (integer minor
//     units). Floating point never appears in a model.
//  2. **IDs, not pointers**: Relationships use ID strings to avoid
//     circular references and aliasing between ledger and UI state.
//  3. **Closed split variant**: Split carries a Kind tag and exactly
//     one populated payload. Code computing shares switches on Kind
//     and treats an unknown tag as an error, so an unhandled policy
//     can never silently produce wrong shares.
//  4. **Derived state is not stored**: Balances and settlement plans
//     are recomputed from the expense sequence on demand.
package models
