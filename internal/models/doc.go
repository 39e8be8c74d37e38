// Package models defines the core domain models for warikan.
//
// # Models
//
//   - Purchaser: a participant who may pay for or owe a share of a purchase
//   - Purchase: a recorded shared purchase with its per-purchaser allocations
//   - Allocation: the amount one purchaser paid and/or owes for one purchase
//   - PurchaseDraft: a purchase being composed in a form, before it is persisted
//   - User: a registered account allowed to use the application
//
// Amounts are whole yen stored as int64. Optional amounts are pointers so that
// "not entered" can be told apart from an explicit 0.
//
// # Design Principles
//
//  1. Purchasers are owned by the store and are referenced by ID, never mutated by the split logic
//  2. Purchases carry their allocations inline; there is no separate allocation identity
//  3. Settlement is a flag on the purchase, toggled explicitly
package models
