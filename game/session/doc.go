// Package session manages game session lifecycle and persistence.
//
// The Manager keeps active sessions in memory, keyed by a short
// case-insensitive ID, and optionally mirrors them through a
// SessionPersistence backend so games survive server restarts.
//
// Two backends are provided:
//
//   - FilePersistence writes each session as an indented JSON file
//     under a sessions directory, named <id>.json.
//   - RedisPersistence stores the same JSON document in Redis under
//     slidegame:session:<id>, optionally with a TTL.
//
// Persistence is fail-soft: a failed save logs a warning and the
// in-memory game keeps playing. Loads that fail (corrupt file, missing
// rules) surface errors so callers can decide what to do.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", rulesManager)
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, _ := manager.Create("", rules)
//	// ... play ...
//	manager.Save(sess.ID)
package session
