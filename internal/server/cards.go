package server

// The five comparison attributes, in their fixed display order.
var attributes = []string{"car", "cul", "tet", "fis", "per"}

func isAttribute(key string) bool {
	for _, attr := range attributes {
		if attr == key {
			return true
		}
	}
	return false
}

type Card struct {
	ID   uint
	Name string
	Car  int
	Cul  int
	Tet  int
	Fis  int
	Per  int
}

func (c Card) Attribute(key string) int {
	switch key {
	case "car":
		return c.Car
	case "cul":
		return c.Cul
	case "tet":
		return c.Tet
	case "fis":
		return c.Fis
	case "per":
		return c.Per
	}
	return 0
}

// TotalStats is the tie-break total: the sum of all five attributes.
func (c Card) TotalStats() int {
	return c.Car + c.Cul + c.Tet + c.Fis + c.Per
}

// defaultDeck is the built-in 40-card catalog, used when no database is
// configured. With a database the catalog is seeded by cmd/load-cards and
// loaded at startup.
func defaultDeck() []Card {
	names := []string{
		"El Abuelo", "La Vecina", "Don Ramiro", "La Churrera", "El Portero",
		"Doña Engracia", "El Taxista", "La Peluquera", "El Cuñado", "La Suegra",
		"El Camarero", "La Farmaceutica", "El Quiosquero", "La Profesora", "El Frutero",
		"La Cartera", "El Fontanero", "La Florista", "El Pescadero", "La Bibliotecaria",
		"El Panadero", "La Costurera", "El Relojero", "La Charcutera", "El Zapatero",
		"La Estanquera", "El Carnicero", "La Modista", "El Afilador", "La Verdulera",
		"El Sereno", "La Lotera", "El Barbero", "La Lechera", "El Organillero",
		"La Castañera", "El Trapero", "La Planchadora", "El Botones", "La Portera",
	}
	deck := make([]Card, 0, deckSize)
	for i, name := range names {
		deck = append(deck, Card{
			ID:   uint(i + 1),
			Name: name,
			Car:  (i*7)%20 + 1,
			Cul:  (i*11)%20 + 1,
			Tet:  (i*13)%20 + 1,
			Fis:  (i*17)%20 + 1,
			Per:  (i*19)%20 + 1,
		})
	}
	return deck
}
