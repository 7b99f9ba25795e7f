// Package rsclient provides the primary entry point for constructing a
// Responsys REST API client that implements the responsys.Client interface.
//
// It layers configuration, HTTP transport and session management on top of
// the resource interfaces and types defined in the responsys package. Most
// applications should import rsclient to build a client, then use the
// returned responsys.Client to reach the resource-specific clients:
// Lists(), ProfileMembers(), ExtensionMembers() and SupplementalMembers().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/responsys-client/pkg/responsys"
//	  "github.com/fivetwenty-io/responsys-client/pkg/rsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := rsclient.New(&responsys.Config{
//	    LoginURL: "login5.responsys.net", // https:// is added
//	    Username: "api-user",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // The first call logs in; later calls refresh the token when it is
//	  // older than an hour.
//	  lists, err := cli.Lists().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = lists
//
//	  result, err := cli.ProfileMembers().Merge(ctx, "CONTACTS_LIST", []responsys.Record{
//	    {"CUSTOMER_ID_": "42", "EMAIL_ADDRESS_": "jane@example.com"},
//	  }, "")
//	  if err != nil { log.Fatal(err) }
//	  _ = result.Members()
//	}
//
// Caching
//
// Profile list and extension schemas change rarely. Set Config.Cache to a
// responsys.MemoryCache, or to a NATS JetStream key-value cache shared across
// processes, to serve repeated schema reads locally:
//
//	cache, err := responsys.NewCacheFromConfig(&responsys.CacheConfig{
//	  Type: responsys.CacheTypeNATS,
//	  NATS: &responsys.NATSKVConfig{URL: "nats://127.0.0.1:4222", Bucket: "responsys_cache"},
//	})
//
// Errors
//
// Every failure is a *responsys.ClientError. Use errors.Is with the kind
// sentinels (responsys.ErrTimeout, responsys.ErrAuthentication,
// responsys.ErrRecordLimitExceeded, ...) or the Is* helpers to branch on it.
package rsclient
