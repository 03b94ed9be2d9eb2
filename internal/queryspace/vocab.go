package queryspace

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// defaultKeywords is the built-in damage keyword list, used whenever a
// keyword file is missing or unreadable.
var defaultKeywords = []string{
	"explosion damage", "lightning damage", "flood damage", "freezing damage",
	"tornado damage", "storm damage", "hail damage", "pipe burst damage",
	"structure damage", "water damage", "smoke damage",
}

// DefaultLocations is the covered location list: the monitored US states
// and territories.
var DefaultLocations = []string{
	"Arizona", "Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	"Idaho", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana", "Maine",
	"Maryland", "Michigan", "Minnesota", "Mississippi", "Montana", "Nebraska",
	"Nevada", "New Hampshire", "New Jersey", "New Mexico", "North Carolina",
	"North Dakota", "Ohio", "Oklahoma", "Oregon", "South Carolina", "Tennessee",
	"Texas", "US Virgin Islands", "Utah", "Vermont", "Virginia", "Washington",
	"West Virginia", "Wisconsin", "Wyoming", "DC",
}

// defaultAccounts lists the emergency-service and scanner handles whose
// timelines are swept after the keyword queries, without the "@" prefix.
var defaultAccounts = []string{
	"DFWscanner", "DallasTexasTV", "NWSSanAntonio", "FriscoFFD", "RedCrossTXGC",
	"whatsupTucson", "WacoTXFire", "SouthMetroPIO", "NWSBoulder", "SeattleFire",
	"CityofMiamiFire", "PeterNewcomb41", "ffxfirerescue", "ScannerRadioDFW",
	"sfgafirerescue", "THEJFRD", "ChicagoMWeather", "ToledoFire", "AustinFireInfo",
}

// Vocabulary is the result of a load-or-default lookup. Fallback reports
// whether the built-in list was used so callers can log provenance.
type Vocabulary struct {
	Words    []string
	Fallback bool
}

// vocabFile is the YAML shape of a vocabulary file.
type vocabFile struct {
	Keywords []string `yaml:"keywords"`
	Accounts []string `yaml:"accounts"`
}

// LoadKeywords reads the keyword list from a YAML file, falling back to
// the built-in defaults on any failure. A missing or malformed vocabulary
// never stops a run.
func LoadKeywords(path string) Vocabulary {
	return loadOrDefault(path, defaultKeywords, func(f vocabFile) []string { return f.Keywords })
}

// LoadAccounts reads the watched-account list from a YAML file, falling
// back to the built-in defaults on any failure.
func LoadAccounts(path string) Vocabulary {
	return loadOrDefault(path, defaultAccounts, func(f vocabFile) []string { return f.Accounts })
}

func loadOrDefault(path string, fallback []string, pick func(vocabFile) []string) Vocabulary {
	if path == "" {
		return Vocabulary{Words: fallback, Fallback: true}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("queryspace: vocabulary file unreadable, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Vocabulary{Words: fallback, Fallback: true}
	}

	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		zap.L().Warn("queryspace: vocabulary file malformed, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Vocabulary{Words: fallback, Fallback: true}
	}

	words := pick(f)
	if len(words) == 0 {
		zap.L().Warn("queryspace: vocabulary file empty, using defaults",
			zap.String("path", path),
		)
		return Vocabulary{Words: fallback, Fallback: true}
	}

	return Vocabulary{Words: words}
}
