// Package reflookup embeds the watch reference lookup engine in a Go program.
//
// A Client owns the catalog connection, the history store and the worker
// pool shared by all sessions. Each Session mirrors one lookup page: the
// signed-in user, the filter form, reference suggestions, the result drawer
// and the search history.
//
//	client, _ := reflookup.New(ctx,
//	    reflookup.WithCatalog("http://catalog:9090"),
//	    reflookup.WithTiers(
//	        reflookup.Tier{ID: "free"},
//	        reflookup.Tier{ID: "dealer", AdvancedSearch: true, SearchHistoryLimit: 10, AutocompleteReference: true},
//	    ),
//	)
//	defer client.Close()
//
//	s := client.NewSession()
//	s.SetUser("u1", "dealer")
//	_ = s.Set(ctx, reflookup.FieldReference, "116500LN")
//	report, _ := s.Search(ctx)
//	fmt.Println(report.Outcome, len(s.Presentation().Results))
//
// History is kept in memory unless WithRedis is given.
package reflookup
