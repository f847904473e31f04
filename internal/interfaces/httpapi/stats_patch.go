package httpapi

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	"github.com/riskibarqy/match-center/internal/usecase"
)

// parseStatsPatch accepts ratings at the top level or nested under "stats".
// Values may be JSON numbers or numeric strings; null leaves a rating unset.
// Range checks belong to the service.
func parseStatsPatch(body map[string]any) (playerstats.Stats, error) {
	if body == nil {
		return playerstats.Stats{}, fmt.Errorf("%w: stats payload must be a JSON object", usecase.ErrInvalidInput)
	}

	values := make(map[string]any, len(body))
	for key, v := range body {
		if key != "stats" {
			values[key] = v
			continue
		}
		if v == nil {
			continue
		}
		nested, ok := v.(map[string]any)
		if !ok {
			return playerstats.Stats{}, invalidField("stats", "must be an object")
		}
		for nk, nv := range nested {
			values[nk] = nv
		}
	}

	var patch playerstats.Stats
	for key, raw := range values {
		if raw == nil {
			if !isStatName(key) {
				return playerstats.Stats{}, invalidField(key, "is not a known stat")
			}
			continue
		}
		n, err := statValue(key, raw)
		if err != nil {
			return playerstats.Stats{}, err
		}
		if !patch.Set(key, n) {
			return playerstats.Stats{}, invalidField(key, "is not a known stat")
		}
	}
	return patch, nil
}

func statValue(key string, raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, invalidField(key, "must be an integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalidField(key, "must be an integer")
		}
		return n, nil
	default:
		return 0, invalidField(key, "must be an integer")
	}
}

func isStatName(key string) bool {
	return slices.Contains(playerstats.FieldNames(), key)
}
