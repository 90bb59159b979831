// Package table holds the core table synchronization state machine: the
// entity types, the ordered-insert and order-allocation utilities, the value
// normalizers, and the pure reducer that owns the in-memory projection of the
// roster.
//
// # Architecture
//
// State flows in one direction:
//
//	user intent → Normalize → outbound channel intent → document store
//	                                                         ↓
//	         render ← next State ← Reduce(State, Action) ← confirmation event
//
// Entities never enter the collections directly from user input; they arrive
// as confirmed channel events, so the reducer is a synchronous fold over a
// single ordered action stream and needs no locking. The bulk refresh
// coordinator drives its per-row fetch actions (FetchRows, ResolveRow,
// RejectRow, ResolveRows, RejectRows) into the same stream.
//
// # Purity
//
// Reduce treats State as a value. Slices and maps are cloned before any
// modification, so a retained previous State is never changed behind the
// caller's back and applying the same action twice from the same state
// produces identical results. Unknown actions and unknown ids return the
// input state unchanged, which makes duplicate removal confirmations and
// other channel oddities harmless.
//
// # Ordering
//
// Rows and columns each keep a strictly increasing Order rank. Inserts use
// InsertionIndex, a stable leftmost binary search, so the collections are
// never re-sorted wholesale. New row ranks come from NextOrder; new percent
// column ranks come from OrderBetween, which signals when the interval
// between two neighbors can no longer be halved so the caller can renumber.
//
// # Undo
//
// Every removal pushes a tagged HistoryEntry. Undo pops exactly one entry;
// restoring the entity is the caller's job (it re-issues an insert intent and
// the entity returns through the normal confirmation path). The stack is
// capped; only the top entry is ever restorable.
package table
