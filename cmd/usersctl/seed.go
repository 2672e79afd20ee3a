package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"usersadmin/internal/client"
	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
)

var seedCount int

var firstNames = []string{"Alice", "Bob", "Carla", "Dmitri", "Elena", "Farid", "Grace", "Hiro", "Ines", "Jonas", "Kemal", "Lena", "Marco", "Nadia", "Omar", "Priya"}
var lastNames = []string{"Adams", "Baker", "Costa", "Dubois", "Evans", "Fischer", "Garcia", "Hansen", "Ito", "Jensen", "Kowalski", "Lopez", "Moreau", "Nakamura"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create random users for local testing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 1 {
			return fmt.Errorf("--count must be > 0")
		}
		created, skipped := 0, 0
		for i := 0; i < seedCount; i++ {
			_, err := apiClient.CreateUser(cmd.Context(), randomUser(i))
			if err != nil {
				if v, ok := domain.AsValidation(err); ok && v.Code == domain.CodeDuplicateEmail {
					skipped++
					continue
				}
				return fmt.Errorf("seeding user %d: %w", i, err)
			}
			created++
		}
		fmt.Printf("Seeded %d users (%d duplicate emails skipped)\n", created, skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 50, "number of users to create")
}

func randomUser(i int) client.CreateUserRequest {
	first := firstNames[rand.Intn(len(firstNames))]
	last := lastNames[rand.Intn(len(lastNames))]
	return client.CreateUserRequest{
		Name:   first + " " + last,
		Email:  strings.ToLower(fmt.Sprintf("%s.%s.%d%d@example.com", first, last, i, rand.Intn(10000))),
		Role:   string(models.Roles[rand.Intn(len(models.Roles))]),
		Status: string(models.Statuses[rand.Intn(len(models.Statuses))]),
	}
}
