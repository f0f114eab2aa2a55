package scraper

// Source is one trusted publisher and the pages worth fetching from it.
type Source struct {
	Name    string
	BaseURL string
	Targets []string
}

// TrustedSources is the fixed list of disaster-preparedness publishers the
// assistant is allowed to ground answers on.
func TrustedSources() []Source {
	return []Source{
		{
			Name:    "FEMA",
			BaseURL: "https://www.fema.gov",
			Targets: []string{
				"/emergency-managers/practitioners/planning",
				"/individuals-communities/emergency-preparedness",
				"/disaster/how-to-prepare",
			},
		},
		{
			Name:    "Ready.gov",
			BaseURL: "https://www.ready.gov",
			Targets: []string{
				"/plan",
				"/kit",
				"/informed",
				"/involved",
			},
		},
		{
			Name:    "CDC",
			BaseURL: "https://www.cdc.gov",
			Targets: []string{
				"/disasters/index.html",
				"/disasters/hurricanes/index.html",
				"/disasters/earthquakes/index.html",
				"/disasters/floods/index.html",
			},
		},
		{
			Name:    "NOAA",
			BaseURL: "https://www.weather.gov",
			Targets: []string{
				"/safety",
				"/wrn/force-preparedness",
				"/safety/hurricane",
				"/safety/tornado",
			},
		},
		{
			Name:    "Red Cross",
			BaseURL: "https://www.redcross.org",
			Targets: []string{
				"/get-help/how-to-prepare-for-emergencies",
				"/get-help/disaster-relief-and-recovery-services",
				"/about-us/our-work/disaster-relief",
			},
		},
		{
			Name:    "WHO",
			BaseURL: "https://www.who.int",
			Targets: []string{
				"/emergencies/diseases",
				"/emergencies/surveillance",
				"/emergencies/preparedness",
			},
		},
		{
			Name:    "UNDRR",
			BaseURL: "https://www.undrr.org",
			Targets: []string{
				"/building-resilience",
				"/reducing-disaster-risk",
				"/understanding-disaster-risk",
			},
		},
	}
}
