package planner_test

import (
	"testing"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func makeCatalog(t *testing.T, ores ...domain.Ore) *domain.Catalog {
	t.Helper()
	cat, err := domain.NewCatalog(ores)
	require.NoError(t, err)
	return cat
}

func makeOre(id int, name string, yield domain.Minerals) domain.Ore {
	return domain.Ore{TypeID: id, Name: name, Volume: 0.1, Yield: yield}
}

func trit(q float64) domain.Minerals {
	return domain.Minerals{}.With(domain.Tritanium, q)
}

func order(typeID int, volume, price float64) domain.Order {
	return domain.Order{TypeID: typeID, VolumeRemain: volume, Price: price}
}
