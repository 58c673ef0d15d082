package lexicon

// DefaultConfig returns the built-in English and Polish tables.
func DefaultConfig() Config {
	return Config{
		Stopwords: map[string][]string{
			"en": {
				"the", "and", "or", "of", "in", "on", "to", "for", "with", "is", "are", "was",
				"were", "be", "by", "as", "at", "it", "this", "that", "an", "a", "from", "into",
				"over", "under", "between", "which", "who", "whose", "whom",
			},
			"pl": {
				"i", "oraz", "lub", "albo", "a", "w", "na", "do", "z", "że", "to", "jak", "o",
				"od", "po", "u", "przy", "dla", "ten", "ta", "te", "tam", "tu", "jest", "są",
				"był", "była", "było", "być", "nie", "tak", "czy", "się", "nad", "pod",
				"między", "który", "która", "które",
			},
		},
		Substitutions: []Substitution{
			{From: "utilize", To: "use"},
			{From: "approximately", To: "about"},
			{From: "numerous", To: "many"},
			{From: "prior to", To: "before"},
			{From: "zastosować", To: "użyć"},
			{From: "aproksymacja", To: "przybliżenie"},
			{From: "poprzez", To: "przez"},
			{From: "w celu", To: "aby"},
			{From: "implementacja", To: "wdrożenie"},
			{From: "konfiguracja", To: "ustawienie"},
			{From: "komponent", To: "część"},
		},
	}
}
