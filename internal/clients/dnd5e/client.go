package dnd5e

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apiEntities "github.com/fadedpez/dnd5e-api/entities"
)

// TODO: add context to functions once the upstream API client accepts one
type client struct {
	client dnd5e.Interface
}

type Config struct {
	HttpClient *http.Client
}

func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, battleerr.InvalidArgument("cfg is required")
	}

	dndClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: cfg.HttpClient,
	})
	if err != nil {
		return nil, err
	}

	return &client{
		client: dndClient,
	}, nil
}

func (c *client) GetMonster(key string) (*MonsterTemplate, error) {
	monster, err := c.client.GetMonster(key)
	if err != nil {
		return nil, err
	}
	if monster == nil {
		return nil, battleerr.NotFoundf("monster %s not found", key)
	}

	return apiToMonsterTemplate(monster), nil
}

// ListMonstersByCR returns monsters within a challenge rating range
func (c *client) ListMonstersByCR(minCR, maxCR float32) ([]*MonsterTemplate, error) {
	// The API only supports filtering by exact CR, not range
	crValues := getCRValuesInRange(minCR, maxCR)

	monsters := make([]*MonsterTemplate, 0)
	processedKeys := make(map[string]bool)

	for _, cr := range crValues {
		crFloat64 := float64(cr)
		input := &dnd5e.ListMonstersInput{
			ChallengeRating: &crFloat64,
		}

		monsterRefs, err := c.client.ListMonstersWithFilter(input)
		if err != nil {
			log.Printf("Failed to list monsters for CR %f: %v", cr, err)
			continue
		}

		for _, ref := range monsterRefs {
			if ref.Key == "" || processedKeys[ref.Key] {
				continue
			}
			monster, err := c.client.GetMonster(ref.Key)
			if err != nil {
				log.Printf("Failed to get monster %s: %v", ref.Key, err)
				continue
			}
			if template := apiToMonsterTemplate(monster); template != nil {
				monsters = append(monsters, template)
				processedKeys[ref.Key] = true
			}
		}
	}

	return monsters, nil
}

// getCRValuesInRange returns all standard CR values within the given range
func getCRValuesInRange(minCR, maxCR float32) []float32 {
	allCRs := []float32{0, 0.125, 0.25, 0.5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
		11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30}

	var result []float32
	for _, cr := range allCRs {
		if cr >= minCR && cr <= maxCR {
			result = append(result, cr)
		}
	}
	return result
}

func apiToMonsterTemplate(input *apiEntities.Monster) *MonsterTemplate {
	if input == nil {
		return nil
	}

	return &MonsterTemplate{
		Key:             input.Key,
		Name:            input.Name,
		Type:            input.Type,
		ArmorClass:      input.ArmorClass,
		HitPoints:       input.HitPoints,
		HitDice:         input.HitDice,
		ChallengeRating: input.ChallengeRating,
		Actions:         apisToMonsterActions(input.MonsterActions),
	}
}

func apisToMonsterActions(input []*apiEntities.MonsterAction) []*MonsterAction {
	if input == nil {
		return nil
	}

	var actions []*MonsterAction
	for _, ma := range input {
		if ma == nil {
			continue
		}
		actions = append(actions, &MonsterAction{
			Name:        ma.Name,
			Description: ma.Description,
			AttackBonus: ma.AttackBonus,
			Damage:      apisToDamages(ma.Damage),
		})
	}

	return actions
}

func apisToDamages(input []*apiEntities.Damage) []*DamageDice {
	var damages []*DamageDice
	for _, d := range input {
		if d == nil {
			continue
		}
		damages = append(damages, ParseDamageDice(d.DamageDice))
	}
	return damages
}

// ParseDamageDice parses expressions like "1d6+2". Unparseable parts are zero.
func ParseDamageDice(expr string) *DamageDice {
	a := strings.Split(strings.ReplaceAll(expr, " ", ""), "+")
	dice := a[0]
	var bonus, diceValue, diceCount int
	if len(a) == 2 {
		bonus, _ = strconv.Atoi(a[1])
	}

	b := strings.Split(dice, "d")
	if len(b) == 2 {
		diceCount, _ = strconv.Atoi(b[0])
		diceValue, _ = strconv.Atoi(b[1])
	} else {
		// Flat damage such as "1"
		flat, _ := strconv.Atoi(dice)
		bonus += flat
	}

	return &DamageDice{
		Count: diceCount,
		Size:  diceValue,
		Bonus: bonus,
	}
}
