package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"el-triunfo/internal/config"
	"el-triunfo/internal/db"
)

// Seeds the 40-card catalog. CSV columns: name,car,cul,tet,fis,per with a
// header row.
type cardRecord struct {
	Name string
	Car  int
	Cul  int
	Tet  int
	Fis  int
	Per  int
}

const expectedDeckSize = 40

func main() {
	filePath := flag.String("file", "cards.csv", "path to cards csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	records, err := readCards(*filePath)
	if err != nil {
		log.Fatalf("failed to read cards: %v", err)
	}
	if len(records) != expectedDeckSize {
		log.Fatalf("catalog must contain exactly %d cards, got %d", expectedDeckSize, len(records))
	}

	inserted := 0
	for _, record := range records {
		entry := db.Card{
			Name: record.Name,
			Car:  record.Car,
			Cul:  record.Cul,
			Tet:  record.Tet,
			Fis:  record.Fis,
			Per:  record.Per,
		}
		if err := conn.FirstOrCreate(&entry, db.Card{Name: entry.Name}).Error; err != nil {
			log.Fatalf("failed to upsert card: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d cards", inserted)
}

func readCards(path string) ([]cardRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []cardRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 6 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		values := make([]int, 5)
		ok := true
		for j := 0; j < 5; j++ {
			value, err := strconv.Atoi(strings.TrimSpace(row[j+1]))
			if err != nil {
				ok = false
				break
			}
			values[j] = value
		}
		if !ok {
			continue
		}
		records = append(records, cardRecord{
			Name: name,
			Car:  values[0],
			Cul:  values[1],
			Tet:  values[2],
			Fis:  values[3],
			Per:  values[4],
		})
	}
	return records, nil
}
