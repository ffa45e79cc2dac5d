// Package xfake generates human-readable synthetic identities from a seeded
// random source. The same seed always yields the same sequence, and the
// Unique* constructors guarantee that no value is handed out twice by a
// single Faker instance.
package xfake

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen", "Christopher",
	"Lisa", "Daniel", "Nancy", "Matthew", "Betty", "Anthony", "Sandra",
	"Mark", "Margaret", "Donald", "Ashley", "Steven", "Kimberly", "Andrew",
	"Emily", "Paul", "Donna", "Joshua", "Michelle",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	"Ramirez", "Lewis", "Robinson", "Walker", "Young", "Allen", "King",
	"Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
}

var emailDomains = []string{
	"example.com", "example.org", "example.net",
}

// Faker draws synthetic identities from a seeded source.
type Faker struct {
	rng  *rand.Rand
	used map[string]struct{}
	seq  int
}

// New creates a Faker seeded with seed.
func New(seed uint64) *Faker {
	return &Faker{
		rng:  rand.New(rand.NewPCG(seed, seed)),
		used: make(map[string]struct{}),
	}
}

// Name returns a random full name.
func (f *Faker) Name() string {
	first := firstNames[f.rng.IntN(len(firstNames))]
	last := lastNames[f.rng.IntN(len(lastNames))]

	return first + " " + last
}

// Email returns a random email address.
func (f *Faker) Email() string {
	first := strings.ToLower(firstNames[f.rng.IntN(len(firstNames))])
	last := strings.ToLower(lastNames[f.rng.IntN(len(lastNames))])
	domain := emailDomains[f.rng.IntN(len(emailDomains))]

	return fmt.Sprintf("%s.%s@%s", first, last, domain)
}

// Phone returns a random phone number in the reserved 555 exchange.
func (f *Faker) Phone() string {
	return fmt.Sprintf("+1-%03d-555-%04d", 200+f.rng.IntN(800), f.rng.IntN(10000))
}

// UniqueName returns a full name not returned before by this Faker.
func (f *Faker) UniqueName() string {
	return f.unique(f.Name)
}

// UniqueEmail returns an email address not returned before by this Faker.
func (f *Faker) UniqueEmail() string {
	return f.unique(f.Email)
}

// UniquePhone returns a phone number not returned before by this Faker.
func (f *Faker) UniquePhone() string {
	return f.unique(f.Phone)
}

const maxDraws = 100

// unique retries generate until it produces an unseen value. The candidate
// pools are finite, so after maxDraws collisions a monotonic sequence number
// is appended, which is distinct by construction.
func (f *Faker) unique(generate func() string) string {
	for i := 0; i < maxDraws; i++ {
		candidate := generate()
		if _, ok := f.used[candidate]; ok {
			continue
		}

		f.used[candidate] = struct{}{}

		return candidate
	}

	f.seq++
	candidate := fmt.Sprintf("%s %d", generate(), f.seq)

	for {
		if _, ok := f.used[candidate]; !ok {
			break
		}

		f.seq++
		candidate = fmt.Sprintf("%s %d", generate(), f.seq)
	}

	f.used[candidate] = struct{}{}

	return candidate
}
