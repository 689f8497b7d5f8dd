package calendar

import "strings"

const campusMapURL = "https://campusmap.ufl.edu/#/index/"

// buildings maps campus building codes onto their campus map index.
var buildings = map[string]string{
	"AND": "0007",
	"ARC": "0268",
	"BAR": "0747",
	"BLA": "0724",
	"BRO": "0759",
	"BRY": "0006",
	"BUC": "0015",
	"CAR": "0022",
	"CHE": "0723",
	"CHM": "0028",
	"COM": "0203",
	"CSE": "0042",
	"CON": "0687",
	"CRI": "0031",
	"DAU": "0111",
	"DEN": "0205",
	"DIC": "0181",
	"EMA": "0060",
	"EMB": "0116",
	"EEL": "0668",
	"ELM": "0465",
	"ESB": "0725",
	"FAA": "0597",
	"FAB": "0598",
	"FAC": "0599",
	"FAD": "0269",
	"FLE": "0134",
	"FNT": "0008",
	"FLG": "0021",
	"FSB": "0475",
	"GRA": "0201",
	"GFH": "0010",
	"GRI": "0002",
	"HMA": "0309",
	"HUM": "0579",
	"JEN": "0596",
	"LAR": "0714",
	"LEI": "0009",
	"LIE": "0005",
	"LIW": "0689",
	"LIT": "0655",
	"MSL": "0043",
	"MAT": "0406",
	"MCA": "0495",
	"MCB": "0496",
	"MCC": "0497",
	"MCD": "0498",
	"MEB": "0720",
	"MEL": "0183",
	"MCS": "0226",
	"MUS": "0117",
	"NEW": "0013",
	"NZH": "0832",
	"NOR": "0101",
	"NOA": "0103",
	"OCC": "0094",
	"PEB": "0004",
	"PHY": "0104",
	"PSF": "1200",
	"PHE": "0863",
	"PSY": "0749",
	"PXA": "0294",
	"RAW": "0265",
	"REI": "0686",
	"RHI": "0184",
	"ROG": "0474",
	"ROL": "0012",
	"SMA": "0005",
	"STU": "0029",
	"TIG": "0026",
	"TUR": "0267",
	"VAN": "0023",
	"WAL": "0002",
	"WEI": "0024",
	"WIL": "0100",
}

// BuildingURL returns the campus map URL of the building a location starts with. The building is
// identified by the first three letters of the location, like "CSE E119".
func BuildingURL(location string) (string, bool) {
	location = strings.TrimSpace(location)
	if len(location) < 3 {
		return "", false
	}
	index, ok := buildings[strings.ToUpper(location[:3])]
	if !ok {
		return "", false
	}
	return campusMapURL + index, true
}
