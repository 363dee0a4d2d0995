package sport

var catalog = map[Type]Profile{
	TypeVolleyball: {
		ID:           TypeVolleyball,
		Name:         "Voleibol",
		PlayersCount: 6,
		Positions:    []string{"Ponteiro", "Oposto", "Levantador", "Central", "Líbero"},
		Court:        CourtSize{Width: 300, Height: 600},
	},
	TypeBasketball: {
		ID:           TypeBasketball,
		Name:         "Basquete",
		PlayersCount: 5,
		Positions:    []string{"Armador", "Ala-armador", "Ala", "Ala-pivô", "Pivô"},
		Court:        CourtSize{Width: 280, Height: 500},
	},
	TypeHandball: {
		ID:           TypeHandball,
		Name:         "Handebol",
		PlayersCount: 7,
		Positions:    []string{"Goleiro", "Armador Central", "Meias", "Pontas", "Pivô"},
		Court:        CourtSize{Width: 300, Height: 500},
	},
	TypeFutsal: {
		ID:           TypeFutsal,
		Name:         "Futsal",
		PlayersCount: 5,
		Positions:    []string{"Goleiro", "Fixo", "Ala", "Pivô"},
		Court:        CourtSize{Width: 300, Height: 500},
	},
	TypeFootball: {
		ID:           TypeFootball,
		Name:         "Futebol",
		PlayersCount: 11,
		Positions:    []string{"Goleiro", "Lateral", "Zagueiro", "Volante", "Meia", "Atacante"},
		Court:        CourtSize{Width: 350, Height: 600},
	},
}

var ordered = []Type{
	TypeVolleyball,
	TypeBasketball,
	TypeHandball,
	TypeFutsal,
	TypeFootball,
}

// ProfileFor looks up the static profile of a sport.
func ProfileFor(t Type) (Profile, bool) {
	p, ok := catalog[t]
	if !ok {
		return Profile{}, false
	}
	return cloneProfile(p), true
}

// Profiles returns every supported sport in a stable order.
func Profiles() []Profile {
	out := make([]Profile, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, cloneProfile(catalog[t]))
	}
	return out
}

// Valid reports whether t names a supported sport.
func Valid(t Type) bool {
	_, ok := catalog[t]
	return ok
}

func cloneProfile(p Profile) Profile {
	copied := p
	copied.Positions = append([]string(nil), p.Positions...)
	return copied
}
