package fetch

// Default source definitions for the two public feeds. The rename maps
// are the schema contract between the external sources and the pipeline;
// override them when the upstream schema changes.

// DefaultCasesSource maps the COVID Tracking Project state daily feed
// onto the internal case schema, restricted to one state.
//
//	positiveIncrease -> cases
func DefaultCasesSource(url, state string) Source {
	return Source{
		Name:         "public_cases",
		URL:          url,
		DateColumn:   "date",
		DateLayout:   "20060102", // the feed encodes dates as YYYYMMDD
		RegionColumn: "state",
		Region:       state,
		Renames: map[string]string{
			"positiveIncrease": "cases",
		},
	}
}

// DefaultMetricsSource maps the Google COVID-19 Open Data search trends
// feed onto the internal web metric schema, restricted to one US state
// (feed keys look like "US_TX").
//
//	search_trends_fever -> covid_symptom_searches
//	search_trends_cough -> search_queries
func DefaultMetricsSource(url, state string) Source {
	return Source{
		Name:         "public_web_metrics",
		URL:          url,
		DateColumn:   "date",
		DateLayout:   "2006-01-02",
		RegionColumn: "key",
		Region:       "US_" + state,
		Renames: map[string]string{
			"search_trends_fever": "covid_symptom_searches",
			"search_trends_cough": "search_queries",
		},
	}
}
