package config

// defaultSkytraxSlugs maps airport idents to their airlinequality.com review slug.
func defaultSkytraxSlugs() map[string]string {
	return map[string]string{
		"BIKF": "keflavik-airport",
		"EDDB": "berlin-brandenburg-airport",
		"EDDF": "frankfurt-main-airport",
		"EDDH": "hamburg-airport",
		"EDDK": "colognebonn-airport",
		"EDDL": "dusseldorf-airport",
		"EDDM": "munich-airport",
		"EDDN": "nuremburg-airport",
		"EDDP": "leipzighalle-airport",
		"EDDS": "stuttgart-airport",
		"EDDV": "hannover-airport",
		"EETN": "tallin-airport",
		"EFHK": "helsinki-vantaa-airport",
		"EGAA": "belfast-airport",
		"EGBB": "birmingham-airport",
		"EGCC": "manchester-airport",
		"EGKK": "london-gatwick-airport",
		"EGLL": "london-heathrow-airport",
		"EGGW": "luton-airport",
		"EGPF": "glasgow-airport",
		"EGPH": "edinburgh-airport",
		"EGSS": "london-stansted-airport",
		"EHAM": "amsterdam-schiphol-airport",
		"EHEH": "eindhoven-airport",
		"EIDW": "dublin-airport",
		"EINN": "shannon-airport",
		"EKBI": "billund-airport",
		"EKCH": "copenhagen-airport",
		"ELLX": "luxembourg-airport",
		"ENBR": "bergen-airport",
		"ENGM": "oslo-airport",
		"ENTC": "tromso-airport",
		"ENVA": "trondheim-airport",
		"ENZV": "stavanger-airport",
		"EPGD": "gdansk-airport",
		"EPKK": "krakow-airport",
		"EPWA": "warsaw-chopin-airport",
		"ESGG": "gothenburg-landvetter-airport",
		"ESSA": "stockholm-arlanda-airport",
		"EVRA": "riga-airport",
		"EYVI": "vilnius-airport",
		"LATI": "tirana-airport",
		"LBBG": "burgas-airport",
		"LBSF": "sofia-airport",
		"LBWN": "varna-airport",
		"LDZA": "zagreb-airport",
		"LEAL": "alicante-airport",
		"LEBL": "barcelona-airport",
		"LEIB": "ibiza-airport",
		"LEMD": "madrid-barajas-airport",
		"LEMG": "malaga-airport",
		"LEPA": "palma-airport",
		"LEST": "santiago-de-compostela",
		"LEVC": "valencia-airport",
		"LFBD": "bordeaux-airport",
		"LFBO": "toulouse-airport",
		"LFLL": "lyon-saint-exupery-airport",
		"LFML": "marseille-airport",
		"LFMN": "nice-cote-dazur-airport",
		"LFPG": "paris-cdg-airport",
		"LFPO": "paris-orly-airport",
		"LFSB": "basel-mulhouse-airport",
		"LGAV": "athens-airport",
		"LGIR": "heraklion-airport",
		"LGTS": "thessaloniki-airport",
		"LHBP": "budapest-ferihegy-airport",
		"LIBD": "bari-palese-airport",
		"LIBR": "brindisi-airport",
		"LICC": "catania-airport",
		"LICJ": "palermo-airport",
		"LIEE": "cagliari-airport",
		"LIMC": "milan-malpensa-airport",
		"LIME": "milan-bergamo-airport",
		"LIMF": "turin-airport",
		"LIMJ": "genova-airport",
		"LIPE": "bologna-marconi-airport",
		"LIPX": "verona-airport",
		"LIPZ": "venice-marco-polo-airport",
		"LIRF": "rome-fiumicino-airport",
		"LIRN": "naples-airport",
		"LIRP": "pisa-airport",
		"LIRQ": "florence-airport",
		"LJLJ": "ljubljana-airport",
		"LKPR": "prague-airport",
		"LMML": "malta-airport",
		"LOWW": "vienna-airport",
		"LPFR": "faro-airport",
		"LPMA": "funchal-airport",
		"LPPD": "ponta-delgada-airport",
		"LPPR": "porto-airport",
		"LPPT": "lisbon-airport",
		"LQSA": "sarajevo-airport",
		"LROP": "bucharest-otopeni-airport",
		"LSGG": "geneva-airport",
		"LSZH": "zurich-airport",
		"LTFM": "istanbul-airport",
		"LWSK": "skopje-airport",
		"LXGB": "gibraltar-airport",
		"LYBE": "belgrade-airport",
		"LYPG": "podgorica-airport",
		"LZIB": "bratislava-airport",
	}
}
