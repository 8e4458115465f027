// Package sim implements the discrete-step transaction simulation engine.
//
// A population of accounts exchanges transfers over a fixed number of steps.
// Normal accounts follow simple behavior models (single, fan-out, fan-in,
// mutual, forward, periodical); accounts organized into alert groups follow
// laundering typologies (fan-out, fan-in, cycle, bipartite, stack,
// scatter-gather, gather-scatter, random walk). Every balance-mutating event
// is handed to a TransactionSink together with before/after balances and the
// suspicious-activity label of its alert group.
//
// The engine is single-threaded and deterministic: all randomness flows
// through the one *rand.Rand held by the Context, and accounts are stepped in
// registration order, so a fixed seed and a fixed load order reproduce the
// ledger exactly.
package sim
