package sources

// Source is one entry of the curated catalog of authoritative domains.
type Source struct {
	ID     string
	Domain string
	Name   string
	Tags   []string
	// Specialized sources are demoted when none of their tags match the
	// query (a medical authority is a poor recommendation for a sports
	// question, even though it is authoritative).
	Specialized bool
}

// Catalog is the fixed advisory set. IDs are stable; scoring happens over
// tags, never over free-text matching against these names.
var Catalog = []Source{
	// General reference
	{ID: "wikipedia", Domain: "en.wikipedia.org", Name: "Wikipedia", Tags: []string{"general"}},
	{ID: "britannica", Domain: "www.britannica.com", Name: "Encyclopaedia Britannica", Tags: []string{"general", "history"}},
	{ID: "snopes", Domain: "www.snopes.com", Name: "Snopes", Tags: []string{"general"}},
	{ID: "factcheck-org", Domain: "www.factcheck.org", Name: "FactCheck.org", Tags: []string{"general", "politics"}},
	{ID: "politifact", Domain: "www.politifact.com", Name: "PolitiFact", Tags: []string{"politics", "general"}},

	// News agencies
	{ID: "reuters", Domain: "www.reuters.com", Name: "Reuters", Tags: []string{"news", "general", "finance"}},
	{ID: "ap", Domain: "apnews.com", Name: "Associated Press", Tags: []string{"news", "general"}},
	{ID: "afp", Domain: "www.afp.com", Name: "AFP", Tags: []string{"news", "general"}},
	{ID: "bbc", Domain: "www.bbc.com", Name: "BBC", Tags: []string{"news", "general", "sports"}},
	{ID: "npr", Domain: "www.npr.org", Name: "NPR", Tags: []string{"news", "general"}},

	// Health & medicine
	{ID: "who", Domain: "www.who.int", Name: "World Health Organization", Tags: []string{"health", "medicine"}, Specialized: true},
	{ID: "cdc", Domain: "www.cdc.gov", Name: "CDC", Tags: []string{"health", "medicine"}, Specialized: true},
	{ID: "nih", Domain: "www.nih.gov", Name: "NIH", Tags: []string{"health", "medicine", "science"}, Specialized: true},
	{ID: "pubmed", Domain: "pubmed.ncbi.nlm.nih.gov", Name: "PubMed", Tags: []string{"health", "medicine", "science"}, Specialized: true},
	{ID: "mayoclinic", Domain: "www.mayoclinic.org", Name: "Mayo Clinic", Tags: []string{"health", "medicine"}, Specialized: true},
	{ID: "cochrane", Domain: "www.cochranelibrary.com", Name: "Cochrane Library", Tags: []string{"health", "medicine", "science"}, Specialized: true},
	{ID: "ema", Domain: "www.ema.europa.eu", Name: "European Medicines Agency", Tags: []string{"health", "medicine", "law"}, Specialized: true},

	// Science & space
	{ID: "nature", Domain: "www.nature.com", Name: "Nature", Tags: []string{"science"}, Specialized: true},
	{ID: "science-org", Domain: "www.science.org", Name: "Science", Tags: []string{"science"}, Specialized: true},
	{ID: "nasa", Domain: "www.nasa.gov", Name: "NASA", Tags: []string{"space", "science"}, Specialized: true},
	{ID: "esa", Domain: "www.esa.int", Name: "European Space Agency", Tags: []string{"space", "science"}, Specialized: true},
	{ID: "nist", Domain: "www.nist.gov", Name: "NIST", Tags: []string{"science", "technology", "cybersecurity"}, Specialized: true},
	{ID: "arxiv", Domain: "arxiv.org", Name: "arXiv", Tags: []string{"science", "technology"}, Specialized: true},
	{ID: "scholar", Domain: "scholar.google.com", Name: "Google Scholar", Tags: []string{"science", "general"}},
	{ID: "crossref", Domain: "www.crossref.org", Name: "Crossref", Tags: []string{"science"}, Specialized: true},
	{ID: "royalsociety", Domain: "royalsociety.org", Name: "The Royal Society", Tags: []string{"science"}, Specialized: true},

	// Climate & environment
	{ID: "ipcc", Domain: "www.ipcc.ch", Name: "IPCC", Tags: []string{"climate", "science"}, Specialized: true},
	{ID: "noaa", Domain: "www.noaa.gov", Name: "NOAA", Tags: []string{"climate", "science"}, Specialized: true},
	{ID: "epa", Domain: "www.epa.gov", Name: "EPA", Tags: []string{"climate", "health", "law"}, Specialized: true},
	{ID: "unep", Domain: "www.unep.org", Name: "UN Environment Programme", Tags: []string{"climate"}, Specialized: true},
	{ID: "carbonbrief", Domain: "www.carbonbrief.org", Name: "Carbon Brief", Tags: []string{"climate"}, Specialized: true},

	// Finance & economics
	{ID: "imf", Domain: "www.imf.org", Name: "IMF", Tags: []string{"finance", "economics"}, Specialized: true},
	{ID: "worldbank", Domain: "www.worldbank.org", Name: "World Bank", Tags: []string{"finance", "economics"}, Specialized: true},
	{ID: "oecd", Domain: "www.oecd.org", Name: "OECD", Tags: []string{"economics", "finance"}, Specialized: true},
	{ID: "sec", Domain: "www.sec.gov", Name: "SEC", Tags: []string{"finance", "law"}, Specialized: true},
	{ID: "federalreserve", Domain: "www.federalreserve.gov", Name: "Federal Reserve", Tags: []string{"finance", "economics"}, Specialized: true},
	{ID: "ecb", Domain: "www.ecb.europa.eu", Name: "European Central Bank", Tags: []string{"finance", "economics"}, Specialized: true},
	{ID: "ft", Domain: "www.ft.com", Name: "Financial Times", Tags: []string{"finance", "economics", "news"}},
	{ID: "bloomberg", Domain: "www.bloomberg.com", Name: "Bloomberg", Tags: []string{"finance", "news"}},

	// Law & government
	{ID: "eurlex", Domain: "eur-lex.europa.eu", Name: "EUR-Lex", Tags: []string{"law"}, Specialized: true},
	{ID: "supremecourt", Domain: "www.supremecourt.gov", Name: "US Supreme Court", Tags: []string{"law"}, Specialized: true},
	{ID: "congress", Domain: "www.congress.gov", Name: "Congress.gov", Tags: []string{"law", "politics"}, Specialized: true},
	{ID: "un", Domain: "www.un.org", Name: "United Nations", Tags: []string{"law", "politics", "general"}},
	{ID: "icj", Domain: "www.icj-cij.org", Name: "International Court of Justice", Tags: []string{"law"}, Specialized: true},

	// Cybersecurity & technology
	{ID: "cisa", Domain: "www.cisa.gov", Name: "CISA", Tags: []string{"cybersecurity"}, Specialized: true},
	{ID: "mitre", Domain: "cve.mitre.org", Name: "MITRE CVE", Tags: []string{"cybersecurity", "technology"}, Specialized: true},
	{ID: "nvd", Domain: "nvd.nist.gov", Name: "NVD", Tags: []string{"cybersecurity"}, Specialized: true},
	{ID: "owasp", Domain: "owasp.org", Name: "OWASP", Tags: []string{"cybersecurity", "technology"}, Specialized: true},
	{ID: "ietf", Domain: "www.ietf.org", Name: "IETF", Tags: []string{"technology"}, Specialized: true},
	{ID: "w3c", Domain: "www.w3.org", Name: "W3C", Tags: []string{"technology"}, Specialized: true},
	{ID: "ieee", Domain: "www.ieee.org", Name: "IEEE", Tags: []string{"technology", "science"}, Specialized: true},

	// Sports
	{ID: "olympics", Domain: "www.olympics.com", Name: "Olympics", Tags: []string{"sports"}, Specialized: true},
	{ID: "fifa", Domain: "www.fifa.com", Name: "FIFA", Tags: []string{"sports"}, Specialized: true},
	{ID: "espn", Domain: "www.espn.com", Name: "ESPN", Tags: []string{"sports", "news"}, Specialized: true},

	// History & geography
	{ID: "loc", Domain: "www.loc.gov", Name: "Library of Congress", Tags: []string{"history", "general"}},
	{ID: "natgeo", Domain: "www.nationalgeographic.com", Name: "National Geographic", Tags: []string{"geography", "science", "history"}},
	{ID: "cia-factbook", Domain: "www.cia.gov", Name: "CIA World Factbook", Tags: []string{"geography", "politics"}, Specialized: true},
	{ID: "unesco", Domain: "www.unesco.org", Name: "UNESCO", Tags: []string{"history", "general"}},

	// Statistics
	{ID: "eurostat", Domain: "ec.europa.eu", Name: "Eurostat", Tags: []string{"economics", "general"}, Specialized: true},
	{ID: "census", Domain: "www.census.gov", Name: "US Census Bureau", Tags: []string{"economics", "general"}, Specialized: true},
	{ID: "ourworldindata", Domain: "ourworldindata.org", Name: "Our World in Data", Tags: []string{"general", "climate", "health", "economics"}},
}

// byID indexes the catalog for validation of model-selected ids.
var byID = func() map[string]Source {
	m := make(map[string]Source, len(Catalog))
	for _, s := range Catalog {
		m[s.ID] = s
	}
	return m
}()

// Lookup returns the catalog entry for an id.
func Lookup(id string) (Source, bool) {
	s, ok := byID[id]
	return s, ok
}
