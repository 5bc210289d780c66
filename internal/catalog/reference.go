package catalog

import "zoohousing/pkg/domain"

// Reference returns the zoo's built-in species and enclosure tables.
func Reference() *domain.Catalog {
	species := []domain.Species{
		{Name: "LEAO", UnitSize: 3, Biomes: domain.NewBiomeSet(domain.BiomeSavanna), Carnivore: true},
		{Name: "LEOPARDO", UnitSize: 2, Biomes: domain.NewBiomeSet(domain.BiomeSavanna), Carnivore: true},
		{Name: "CROCODILO", UnitSize: 3, Biomes: domain.NewBiomeSet(domain.BiomeRiver), Carnivore: true},
		{Name: domain.SpeciesMonkey, UnitSize: 1, Biomes: domain.NewBiomeSet(domain.BiomeSavanna, domain.BiomeForest)},
		{Name: "GAZELA", UnitSize: 2, Biomes: domain.NewBiomeSet(domain.BiomeSavanna)},
		{Name: domain.SpeciesHippopotamus, UnitSize: 4, Biomes: domain.NewBiomeSet(domain.BiomeSavanna, domain.BiomeRiver)},
	}
	enclosures := []domain.Enclosure{
		domain.NewEnclosure(1, "savana", 10, map[string]int{domain.SpeciesMonkey: 3}),
		domain.NewEnclosure(2, "floresta", 5, nil),
		domain.NewEnclosure(3, "savana e rio", 7, map[string]int{"GAZELA": 1}),
		domain.NewEnclosure(4, "rio", 8, nil),
		domain.NewEnclosure(5, "savana", 9, map[string]int{"LEAO": 1}),
	}
	c, err := domain.NewCatalog(species, enclosures)
	if err != nil {
		panic("reference catalog: " + err.Error())
	}
	return c
}
