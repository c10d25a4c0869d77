package extract

import "github.com/Ayushprasai11/Valorant/internal/model"

// LiquipediaValorantStats is the preset name for Liquipedia VCT player
// statistics tables.
const LiquipediaValorantStats = "liquipedia_valorant_stats"

// liquipediaSpec matches the player statistics table on Liquipedia VCT event
// "Statistics" pages.
var liquipediaSpec = Spec{
	TableSelector:  "div.table-responsive",
	HeaderSelector: "thead th",
	RowSelector:    "tbody tr",
	CellSelector:   "td",
	Columns: ColumnMap{
		{Field: "Rank", Header: "#"},
		{Field: "Player", Header: "Player"},
		{Field: "Maps", Header: "Maps"},
		{Field: "Kills", Header: "K"},
		{Field: "Deaths", Header: "D"},
		{Field: "Assists", Header: "A"},
		{Field: "KD", Header: "KD"},
		{Field: "KDA", Header: "KDA"},
		{Field: "ACS_Map", Header: "ACS/Map"},
		{Field: "K_Map", Header: "K/Map"},
		{Field: "D_Map", Header: "D/Map"},
		{Field: "A_Map", Header: "A/Map"},
	},
}

// Presets returns the built-in spec file: the Liquipedia VCT statistics spec
// and the VCT 2023/2024 Masters and Champions events.
func Presets() *SpecFile {
	return &SpecFile{
		Specs: NamedSpecs{{Name: LiquipediaValorantStats, Spec: liquipediaSpec.clone()}},
		Targets: []model.Target{
			{URL: "https://liquipedia.net/valorant/VCT/2024/Stage_1/Masters/Statistics", Spec: LiquipediaValorantStats, Label: "Masters Madrid"},
			{URL: "https://liquipedia.net/valorant/VCT/2024/Stage_2/Masters/Statistics", Spec: LiquipediaValorantStats, Label: "Masters Shanghai"},
			{URL: "https://liquipedia.net/valorant/VCT/2023/Champions/Statistics", Spec: LiquipediaValorantStats, Label: "Champions 2023"},
			{URL: "https://liquipedia.net/valorant/VCT/2023/Masters/Statistics", Spec: LiquipediaValorantStats, Label: "Masters Tokyo"},
		},
	}
}
