// Package microcms provides types, interfaces, and helpers for working with
// the microCMS content API.
//
// # Overview
//
// The microcms package defines the configuration, the Client interface, the
// request descriptors for each operation, the response envelopes, and the
// error taxonomy. A concrete implementation is provided by the cmsclient
// package, which validates the configuration and wires the transport, retry
// policy, and logging. Most consumers construct a client with cmsclient.New
// and then use the typed helpers exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/microcms-go/pkg/cmsclient"
//	  "github.com/fivetwenty-io/microcms-go/pkg/microcms"
//	)
//
//	type Blog struct {
//	  microcms.ListContent
//	  Title string `json:"title"`
//	}
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := cmsclient.New(&microcms.Config{ServiceDomain: "example", APIKey: "key"})
//	  if err != nil { log.Fatal(err) }
//
//	  blogs, err := microcms.GetList[Blog](ctx, cli, &microcms.GetListRequest{
//	    Endpoint: "blogs",
//	    Queries:  microcms.NewQueries().WithLimit(10).WithOrders("-publishedAt"),
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = blogs
//	}
//
// # Queries and filters
//
// Queries encodes the documented parameters (draftKey, limit, offset, orders,
// q, fields, ids, filters, depth, richEditorFormat) plus any extra parameter
// set with Queries.Set. FilterBuilder composes the filters grammar:
//
//	filters := microcms.NewFilter().Equals("category", "news").Contains("title", "release").Build()
//
// # Pagination
//
// GetAllContentIDs and GetAllContents walk a list endpoint 100 contents at a
// time.
//
// # Errors
//
// Calls fail with a ValidationError before any request when a required
// parameter is missing, with an HTTPError when the API answers with a
// non-success status, and with a NetworkError when no response was received.
// Helpers such as IsNotFound and StatusCode make it easy to branch on them.
package microcms
