// Package journal records what happened during the session: every scene
// transition, and every time an effect started or stopped.
//
// Entries are grouped into runs. A run begins with each transition caused
// by a start (including the deferred start of a replay) and gets a fresh
// UUID; later transitions and effect events carry that run's ID.
//
// The journal lives in SQLite, in memory unless configured otherwise.
package journal
