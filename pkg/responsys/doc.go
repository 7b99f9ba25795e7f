// Package responsys defines the public surface of the Responsys REST API
// client: the Client interface and its resource clients, configuration,
// member types, errors and the optional response cache.
//
// Build a client with rsclient.New:
//
//	cli, err := rsclient.New(&responsys.Config{
//	  LoginURL: "https://login2.responsys.net",
//	  Username: "api-user",
//	  Password: "secret",
//	})
//	if err != nil { log.Fatal(err) }
//
//	lists, err := cli.Lists().List(ctx)
//
// # Sessions
//
// The client logs in lazily on the first call and refreshes the token once
// the session is older than an hour. A 401, or a 500 carrying
// "Not a valid authentication token", triggers one fresh login and one
// retry of the call. A 429 is retried once after a 60 second pause; a
// second 429 is handed back to the caller.
//
// # Errors
//
// Every failure is a *ClientError. Use errors.Is with the kind sentinels,
// for example errors.Is(err, responsys.ErrTimeout), or the Is* helpers.
//
// # Records
//
// Members are exchanged as []Record. ToTable and FromTable convert between
// records and the column-oriented RecordData shape Responsys expects.
package responsys
