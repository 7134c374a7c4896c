// Package genremap holds a hand-curated mapping from artist names to genres,
// used to patch gaps in the metadata returned by the Spotify API. It is
// static configuration: no I/O, no mutation.
package genremap

import "strings"

// genres maps artist name to a non-empty genre list. Curated by hand for
// artists where the API returns empty or unhelpful genre data.
var genres = map[string][]string{
	"NF":                   {"hip hop", "christian hip hop", "rap"},
	"Billie Eilish":        {"pop", "alternative", "indie pop"},
	"Eminem":               {"hip hop", "rap"},
	"Tom Odell":            {"indie pop", "alternative", "singer-songwriter"},
	"Ed Sheeran":           {"pop", "singer-songwriter"},
	"Kendrick Lamar":       {"hip hop", "rap", "conscious hip hop"},
	"Anne-Marie":           {"pop", "dance pop"},
	"Wizkid":               {"afrobeats", "afropop"},
	"Lana Del Rey":         {"indie pop", "dream pop", "alternative"},
	"Burna Boy":            {"afrobeats", "afrofusion"},
	"Harry Styles":         {"pop", "rock", "indie pop"},
	"SZA":                  {"r&b", "pop", "alternative r&b"},
	"Yasuharu Takanashi":   {"anime soundtrack", "orchestral", "soundtrack"},
	"Michael Jackson":      {"pop", "r&b", "soul", "funk"},
	"J. Cole":              {"hip hop", "rap", "conscious hip hop"},
	"Cigarettes After Sex": {"dream pop", "ambient pop", "indie pop"},
	"Coldplay":             {"pop", "alternative rock", "indie rock"},
	"Tyla":                 {"afrobeats", "afropop", "r&b"},
	"Lewis Capaldi":        {"pop", "singer-songwriter", "soul"},
	"Niall Horan":          {"pop", "singer-songwriter"},
	"One Direction":        {"pop"},
	"Drake":                {"hip hop", "rap", "r&b"},
	"Justin Bieber":        {"pop", "r&b", "dance pop"},
	"P-Square":             {"afrobeats", "afropop", "r&b"},
	"Hillsong Worship":     {"christian", "worship", "contemporary christian"},
	"The Weeknd":           {"r&b", "pop", "alternative r&b"},
	"Sia":                  {"pop", "dance pop", "electropop"},
	"Post Malone":          {"pop", "hip hop", "trap"},
	"Bruno Mars":           {"pop", "r&b", "funk", "soul"},
	"Rema":                 {"afrobeats", "afropop"},
	"Dave":                 {"hip hop", "rap", "uk rap"},
	"Asake":                {"afrobeats", "street pop"},
	"Adele":                {"pop", "soul", "singer-songwriter"},
	"Rihanna":              {"r&b", "pop", "dance pop"},
	"d4vd":                 {"indie pop", "alternative r&b", "bedroom pop"},
	"Metro Boomin":         {"hip hop", "trap", "rap"},
	"Omah Lay":             {"afrobeats", "afropop"},
	"Labrinth":             {"r&b", "pop", "alternative"},
	"Hans Zimmer":          {"soundtrack", "orchestral", "classical"},
	"RAYE":                 {"pop", "r&b", "soul"},
	"Sabrina Carpenter":    {"pop", "singer-songwriter"},
	"Lauren Spencer Smith": {"pop", "soul", "singer-songwriter"},
	"Childish Gambino":     {"hip hop", "r&b", "indie", "funk"},
	"Kanye West":           {"hip hop", "rap", "alternative hip hop"},
	"Tems":                 {"afrobeats", "afrosoul", "r&b"},
	"2Baba":                {"afrobeats", "afropop"},
	"Chris Brown":          {"r&b", "pop", "dance pop"},
	"Tame Impala":          {"psychedelic rock", "indie rock", "alternative"},
	"Conan Gray":           {"indie pop", "singer-songwriter", "alternative"},
	"Russ":                 {"hip hop", "r&b", "rap"},

	"Davido":         {"afrobeats", "afropop"},
	"Fireboy DML":    {"afrobeats", "afropop"},
	"Ayra Starr":     {"afrobeats", "afropop"},
	"Kizz Daniel":    {"afrobeats", "afropop"},
	"Flavour":        {"afrobeats", "highlife"},
	"Tekno":          {"afrobeats", "afropop"},
	"Yemi Alade":     {"afrobeats", "afropop"},
	"Mr Eazi":        {"afrobeats", "banku music"},
	"Joeboy":         {"afrobeats", "afropop"},
	"Johnny Drille":  {"afrobeats", "alternative"},
	"Adekunle Gold":  {"afrobeats", "afropop", "alternative"},
	"Simi":           {"afrobeats", "afropop", "r&b"},
	"Falz":           {"afrobeats", "hip hop"},
	"Olamide":        {"afrobeats", "street pop", "hip hop"},
	"Phyno":          {"afrobeats", "hip hop"},
	"Zlatan":         {"afrobeats", "street pop"},
	"Fela Kuti":      {"afrobeats", "highlife", "afrojuju"},
	"Oxlade":         {"afrobeats", "afrosoul", "r&b"},
	"Ladipoe":        {"afrobeats", "hip hop"},
	"Blaqbonez":      {"afrobeats", "hip hop"},
	"Shallipopi":     {"afrobeats", "street pop"},
	"Seyi Vibez":     {"afrobeats", "street pop"},
	"Ruger":          {"afrobeats", "afropop"},
	"BNXN":           {"afrobeats", "afropop", "r&b"},
	"Amaarae":        {"afrobeats", "alternative", "r&b"},
	"Tiwa Savage":    {"afrobeats", "afropop"},
	"Wande Coal":     {"afrobeats", "afropop", "r&b"},
	"Patoranking":    {"afrobeats", "reggae dancehall"},
	"Timaya":         {"afrobeats", "afropop"},
	"D'banj":         {"afrobeats", "afropop"},
	"Don Jazzy":      {"afrobeats", "afropop"},
	"Victor AD":      {"afrobeats", "afropop"},
	"Lojay":          {"afrobeats", "afropop"},
	"Fave":           {"afrobeats", "afropop"},
	"Naira Marley":   {"afrobeats", "street pop"},
	"Portable":       {"afrobeats", "street pop"},
	"Cruel Santino":  {"afrobeats", "alternative", "r&b"},
	"King Sunny Ade": {"highlife", "juju"},
	"Chief Commander Ebenezer Obey": {"highlife", "juju"},
	"Lagbaja":         {"afrobeats", "afrojuju"},
	"2Face Idibia":    {"afrobeats", "afropop"},
	"Seun Kuti":       {"afrobeats", "afrojuju"},
	"Femi Kuti":       {"afrobeats", "afrojuju"},
	"Oliver De Coque": {"highlife"},

	"Sarkodie":     {"hiplife", "hip hop"},
	"Stonebwoy":    {"afrobeats", "reggae dancehall"},
	"Shatta Wale":  {"afrobeats", "reggae dancehall"},
	"Black Sherif": {"afrobeats", "hip hop"},
	"KiDi":         {"afrobeats", "afropop"},
	"Kuami Eugene": {"afrobeats", "afropop"},

	"Diamond Platnumz": {"bongo flava", "afrobeats"},
	"Sauti Sol":        {"afropop", "r&b"},

	"Nasty C":         {"hip hop", "rap"},
	"AKA":             {"hip hop", "rap"},
	"Cassper Nyovest": {"hip hop", "rap"},
	"Master KG":       {"afrobeats", "amapiano"},
	"Kabza De Small":  {"amapiano"},
	"DJ Maphorisa":    {"amapiano"},
	"Focalistic":      {"amapiano", "hip hop"},
	"Ami Faku":        {"afropop", "r&b"},

	"Bad Bunny":     {"latin", "reggaeton"},
	"21 Savage":     {"hip hop", "rap", "trap"},
	"Future":        {"hip hop", "trap"},
	"Lil Baby":      {"hip hop", "trap"},
	"Gunna":         {"hip hop", "trap"},
	"Doja Cat":      {"pop", "r&b", "hip hop"},
	"Lizzo":         {"pop", "r&b"},
	"Ariana Grande": {"pop", "r&b"},
	"Dua Lipa":      {"pop", "dance"},
	"Taylor Swift":  {"pop", "country"},
	"Beyoncé":       {"r&b", "pop"},
	"Travis Scott":  {"hip hop", "rap", "trap"},
}

// overrides lists artists whose curated genres always take precedence over
// API data. The API tends to tag these with generic umbrella genres that
// hide the regional styles the map records.
var overrides = map[string]bool{
	"Fela Kuti":      true,
	"King Sunny Ade": true,
	"Chief Commander Ebenezer Obey": true,
	"Oliver De Coque": true,
	"Lagbaja":         true,
	"Seun Kuti":       true,
	"Femi Kuti":       true,
	"2Baba":           true,
	"2Face Idibia":    true,
	"P-Square":        true,
	"D'banj":          true,
	"Don Jazzy":       true,
	"Olamide":         true,
	"Phyno":           true,
	"Flavour":         true,
	"Wande Coal":      true,
	"Victor AD":       true,
	"Portable":        true,
	"Seyi Vibez":      true,
	"Shallipopi":      true,
	"Naira Marley":    true,
	"Cruel Santino":   true,
}

// byKey is the case-normalized index over genres, built once at init.
var byKey = func() map[string][]string {
	m := make(map[string][]string, len(genres))
	for artist, gs := range genres {
		m[normalize(artist)] = gs
	}
	return m
}()

var overrideKeys = func() map[string]bool {
	m := make(map[string]bool, len(overrides))
	for artist := range overrides {
		m[normalize(artist)] = true
	}
	return m
}()

func normalize(artist string) string {
	return strings.ToLower(strings.TrimSpace(artist))
}

// Lookup returns the curated genres for an artist, or nil when the artist is
// not in the map. Matching is case-insensitive. Callers must not mutate the
// returned slice.
func Lookup(artist string) []string {
	return byKey[normalize(artist)]
}

// Overridden reports whether the artist's curated genres should replace API
// genre data entirely.
func Overridden(artist string) bool {
	return overrideKeys[normalize(artist)]
}

// Size returns the number of curated artists, for run summaries.
func Size() int {
	return len(genres)
}
