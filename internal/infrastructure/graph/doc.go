// Package graph owns every conversation with the Neo4j store.
//
// A Manager holds the process-wide driver. It is constructed explicitly,
// initialized once at startup, passed to whoever needs sessions and closed
// on shutdown:
//
//	mgr := graph.NewManager(graph.Config{URL: url, Username: user, Password: pw})
//	if err := mgr.Initialize(ctx); err != nil {
//		logging.Fatal().Err(err).Msg("graph store unreachable")
//	}
//	defer mgr.Close(ctx)
//
// Units of work receive a Tx as their first parameter and are run through
// ExecuteInTransaction, or bound once with Transactional:
//
//	findUser := graph.Transactional(mgr, graph.Read, graph.FindUserByEmail)
//	user, err := findUser(ctx, "a@b.c")
//
// The executor opens a session per call, runs the work in a read or write
// transaction and closes the session on every exit path. Commit, rollback and
// retry of transient failures are the driver's: a unit of work may therefore
// run more than once and must not have side effects outside the transaction.
//
// The query functions in this package (recipes.go, users.go, ...) are units
// of work. Query text is literal; nothing here parses or plans Cypher.
package graph
