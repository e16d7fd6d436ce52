// Package roster generates the clubs and players a new career starts with.
package roster

import (
	"fmt"
	"math/rand/v2"

	"github.com/utakatalp/league-simulator/internal/league"
)

// State is a Brazilian federative unit.
type State struct {
	Abbr string
	Name string
}

var States = []State{
	{"AC", "Acre"}, {"AL", "Alagoas"}, {"AP", "Amapá"}, {"AM", "Amazonas"},
	{"BA", "Bahia"}, {"CE", "Ceará"}, {"DF", "Distrito Federal"}, {"ES", "Espírito Santo"},
	{"GO", "Goiás"}, {"MA", "Maranhão"}, {"MT", "Mato Grosso"}, {"MS", "Mato Grosso do Sul"},
	{"MG", "Minas Gerais"}, {"PA", "Pará"}, {"PB", "Paraíba"}, {"PR", "Paraná"},
	{"PE", "Pernambuco"}, {"PI", "Piauí"}, {"RJ", "Rio de Janeiro"}, {"RN", "Rio Grande do Norte"},
	{"RS", "Rio Grande do Sul"}, {"RO", "Rondônia"}, {"RR", "Roraima"}, {"SC", "Santa Catarina"},
	{"SP", "São Paulo"}, {"SE", "Sergipe"}, {"TO", "Tocantins"},
}

var (
	mascots = []string{"Leões", "Tigres", "Gaviões", "Lobos", "Panteras", "Águias", "Raposas", "Falcões", "Tubarões", "Carcarás", "Onças", "Dragões"}
	colors  = []string{"Azul", "Vermelho", "Verde", "Preto", "Branco", "Amarelo", "Vinho", "Laranja", "Roxo", "Celeste"}
	places  = []string{"Norte", "Sul", "Leste", "Oeste", "Centro", "Nova", "Vila", "Porto", "Santa", "São", "Bom", "Rio", "Praia", "Lago", "Serra"}

	firstNames = []string{"Gabriel", "Lucas", "Mateus", "Pedro", "Rafael", "Gustavo", "Felipe", "Thiago", "Bruno", "Henrique", "Caio", "Enzo", "Bernardo", "Luan", "João", "Vitor", "Igor", "Diego", "André", "Leandro", "Ruan", "Alan", "Eduardo", "Samuel", "Rian", "Paulo", "Yuri", "Rogério", "Maurício", "Alex", "Danilo", "Elias", "Renato", "Caíque", "Murilo", "Nicolas"}
	lastNames  = []string{"Silva", "Souza", "Oliveira", "Santos", "Pereira", "Lima", "Carvalho", "Gomes", "Ribeiro", "Alves", "Costa", "Fernandes", "Araujo", "Barbosa", "Rocha", "Correia", "Martins", "Pinto", "Melo", "Mendes", "Vieira", "Sales", "Monteiro", "Freitas", "Teixeira", "Cardoso"}

	Personalities = []string{
		"Quiet leader", "Dressing-room talker", "Big-game player", "Hides in big games",
		"Model trainer", "Undisciplined", "Fan favourite", "Short fuse",
		"Local idol", "Academy prospect", "Hardened veteran", "Ice-cold from the spot",
	}
)

// Options sizes the generated world.
type Options struct {
	ClubsPerState int
	SquadSize     int
	YouthSize     int
	States        []State // all of States when empty
}

func DefaultOptions() Options {
	return Options{ClubsPerState: 6, SquadSize: 28, YouthSize: 18}
}

// Generate builds every club of every state. Club names are unique across
// the world and player names are unique within a club, so fixtures and
// match events can refer to them by name.
func Generate(rng *rand.Rand, opts Options) []*league.Club {
	states := opts.States
	if len(states) == 0 {
		states = States
	}

	taken := make(map[string]struct{})
	var clubs []*league.Club
	for _, st := range states {
		for i := 0; i < opts.ClubsPerState; i++ {
			name := unique(taken, fmt.Sprintf("%s %s %s %s", pick(rng, places), pick(rng, colors), pick(rng, mascots), st.Abbr))
			names := make(map[string]struct{}, opts.SquadSize+opts.YouthSize)
			clubs = append(clubs, &league.Club{
				Name:      name,
				StateAbbr: st.Abbr,
				StateName: st.Name,
				Budget:    5_000_000 + rng.Int64N(75_000_001),
				Squad:     players(rng, names, opts.SquadSize, senior),
				Youth:     players(rng, names, opts.YouthSize, academy),
			})
		}
	}
	return clubs
}

type profile struct {
	minAge, maxAge     int
	minSkill, maxSkill int
}

var (
	senior  = profile{minAge: 18, maxAge: 35, minSkill: 30, maxSkill: 90}
	academy = profile{minAge: 15, maxAge: 18, minSkill: 25, maxSkill: 70}
)

func players(rng *rand.Rand, taken map[string]struct{}, n int, pr profile) []*league.Player {
	out := make([]*league.Player, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &league.Player{
			Name:        unique(taken, pick(rng, firstNames)+" "+pick(rng, lastNames)),
			Age:         between(rng, pr.minAge, pr.maxAge),
			Strength:    between(rng, pr.minSkill, pr.maxSkill),
			Technique:   between(rng, pr.minSkill, pr.maxSkill),
			Speed:       between(rng, pr.minSkill, pr.maxSkill),
			Morale:      between(rng, 40, 90),
			Personality: pick(rng, Personalities),
			Potential:   between(rng, 60, 100),
			Loyalty:     between(rng, 30, 100),
		})
	}
	return out
}

func unique(taken map[string]struct{}, name string) string {
	candidate := name
	for n := 2; ; n++ {
		if _, ok := taken[candidate]; !ok {
			taken[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s %d", name, n)
	}
}

func pick(rng *rand.Rand, xs []string) string {
	return xs[rng.IntN(len(xs))]
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
