// Package cmsclient provides the main entry point for creating microCMS
// content API clients.
//
// New validates the configuration and returns a microcms.Client:
//
//	client, err := cmsclient.New(&microcms.Config{
//		ServiceDomain: "example",
//		APIKey:        os.Getenv("MICROCMS_API_KEY"),
//		Retry:         true,
//	})
//	if err != nil {
//		// microcms.IsConfigurationError(err) is true for a missing domain or key
//	}
//
// The client targets https://{ServiceDomain}.microcms.io/api/v1 and is safe
// for concurrent use.
package cmsclient
