package sampledata

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/eventdash/internal/domain/model"
	"github.com/okian/eventdash/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	ageMin             = 16.0
	ageSpread          = 12.0 // width of each of the summed uniforms
	ageTerms           = 4
	// Every missingAgeEvery-th row leaves the age blank so consumers see
	// missing values.
	missingAgeEvery = 14
)

type weighted struct {
	value  string
	weight int
}

// Attribute pools. Weights are relative.
var (
	years = []weighted{ //nolint:gochecknoglobals // fixed pools
		{"2018", 12}, {"2019", 18}, {"2020", 9}, {"2021", 16}, {"2022", 24},
	}
	genders = []weighted{ //nolint:gochecknoglobals // fixed pools
		{"M", 54}, {"F", 44}, {"", 2},
	}
	events = []weighted{ //nolint:gochecknoglobals // fixed pools
		{"Data Day", 14}, {"AI Summit", 12}, {"Hack Night", 10}, {"Cloud Expo", 9},
		{"Robotics Cup", 7}, {"Startup Pitch", 7}, {"Cyber Week", 6}, {"Design Sprint", 5},
		{"Game Jam", 5}, {"Space Talk", 4}, {"Open Source Day", 3}, {"Quantum Meetup", 2},
	}
	cities = []weighted{ //nolint:gochecknoglobals // fixed pools
		{"Dubai", 30}, {"Abu Dhabi", 24}, {"Sharjah", 14}, {"Al Ain", 9}, {"Ajman", 7},
		{"Ras Al Khaimah", 6}, {"Fujairah", 4}, {"Umm Al Quwain", 3}, {"Khor Fakkan", 2}, {"Dibba", 1},
	}
	nationalities = []weighted{ //nolint:gochecknoglobals // fixed pools
		{"UAE", 26}, {"India", 18}, {"Pakistan", 9}, {"Egypt", 8}, {"Jordan", 6},
		{"Philippines", 6}, {"Syria", 5}, {"Lebanon", 4}, {"UK", 4}, {"USA", 3},
		{"Saudi Arabia", 3}, {"Sudan", 2}, {"Bangladesh", 2}, {"Nigeria", 2}, {"France", 2},
	}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick(pool []weighted) string {
	total := 0
	for _, w := range pool {
		total += w.weight
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(total)))
	r := int(n.Int64())
	for _, w := range pool {
		if r < w.weight {
			return w.value
		}
		r -= w.weight
	}
	return pool[len(pool)-1].value
}

// generateAge sums a few uniforms for a bell-shaped age around 40.
func generateAge() float64 {
	sum := 0.0
	for i := 0; i < ageTerms; i++ {
		sum += getRandomFloat() * ageSpread
	}
	return float64(int(ageMin + sum))
}

// Generate creates rows synthetic participation records.
func Generate(ctx context.Context, rows int) ([]Participant, error) {
	if rows < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRows, rows)
	}
	logger.Get().Info(ctx, "generating participation rows", logger.Int("rows", rows))

	out := make([]Participant, rows)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		out[i] = generateSingle(i)
	}

	logger.Get().Info(ctx, "generated rows successfully", logger.Int("count", len(out)))
	return out, nil
}

func generateSingle(index int) Participant {
	year, _ := strconv.Atoi(pick(years))

	var age *float64
	if index%missingAgeEvery != missingAgeEvery-1 {
		age = model.AgeOf(generateAge())
	}

	return Participant{
		ID: uuid.New().String(),
		Record: model.Record{
			Year:        year,
			Gender:      pick(genders),
			Event:       pick(events),
			City:        pick(cities),
			Nationality: pick(nationalities),
			Age:         age,
		},
	}
}
