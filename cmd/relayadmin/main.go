// relayadmin drives the admin API surface from the shell: list users,
// manage plans, grant subscriptions. Handy when the dashboard itself is the
// thing being debugged.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"relaydash/internal/api"
)

func main() {
	adminUser := flag.String("admin", "", "Admin username")
	adminPass := flag.String("pass", "", "Admin password")
	server := flag.String("server", "http://localhost:8000", "Server base URL")

	cmd := flag.String("cmd", "users", "Command: users|plans|create-plan|update-plan|delete-plan|grant|delete-user")

	planID := flag.String("plan-id", "", "Plan id (update-plan/delete-plan/grant)")
	planName := flag.String("plan-name", "", "Plan name")
	planPrice := flag.Float64("plan-price", 0, "Plan price")
	planDays := flag.Int("plan-days", 30, "Plan duration in days")
	username := flag.String("user", "", "Target username (grant/delete-user)")

	flag.Parse()

	if *adminUser == "" || *adminPass == "" {
		log.Fatal("Usage: relayadmin -admin <user> -pass <pass> -cmd <command> ...")
	}

	client := api.New(strings.TrimRight(*server, "/"), 15*time.Second, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Authenticating as %s...\n", *adminUser)
	s, err := client.Login(ctx, *adminUser, *adminPass)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	if !s.IsAdmin() {
		log.Fatalf("User %s is not an admin", *adminUser)
	}
	fmt.Println("Authentication successful.")

	switch *cmd {
	case "users":
		users, err := client.AdminUsers(ctx)
		if err != nil {
			log.Fatalf("List users failed: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%-24s role=%-6s plan=%-26s until=%s\n", u.Username, u.Role, u.PlanID, u.SubscriptionEnd)
		}
	case "plans":
		plans, err := client.Plans(ctx)
		if err != nil {
			log.Fatalf("List plans failed: %v", err)
		}
		for _, p := range plans {
			fmt.Printf("%-26s %-16s $%.2f %d days\n", p.ID, p.Name, p.Price, p.DurationDays)
		}
	case "create-plan":
		requireFlags(map[string]string{"plan-name": *planName})
		plan := api.Plan{Name: *planName, Price: *planPrice, DurationDays: *planDays}
		if err := client.AdminCreatePlan(ctx, plan); err != nil {
			log.Fatalf("Create plan failed: %v", err)
		}
		fmt.Printf("[SUCCESS] Created plan %q\n", *planName)
	case "update-plan":
		requireFlags(map[string]string{"plan-id": *planID, "plan-name": *planName})
		plan := api.Plan{Name: *planName, Price: *planPrice, DurationDays: *planDays}
		if err := client.AdminUpdatePlan(ctx, *planID, plan); err != nil {
			log.Fatalf("Update plan failed: %v", err)
		}
		fmt.Printf("[SUCCESS] Updated plan %s\n", *planID)
	case "delete-plan":
		requireFlags(map[string]string{"plan-id": *planID})
		if err := client.AdminDeletePlan(ctx, *planID); err != nil {
			log.Fatalf("Delete plan failed: %v", err)
		}
		fmt.Printf("[SUCCESS] Deleted plan %s\n", *planID)
	case "grant":
		requireFlags(map[string]string{"user": *username, "plan-id": *planID})
		if err := client.AdminGrantSubscription(ctx, *username, *planID); err != nil {
			log.Fatalf("Grant failed: %v", err)
		}
		fmt.Printf("[SUCCESS] Granted plan %s to %s\n", *planID, *username)
	case "delete-user":
		requireFlags(map[string]string{"user": *username})
		if err := client.AdminDeleteUser(ctx, *username); err != nil {
			log.Fatalf("Delete user failed: %v", err)
		}
		fmt.Printf("[SUCCESS] Deleted user %s\n", *username)
	default:
		log.Fatalf("Unknown command %q", *cmd)
	}
}

func requireFlags(values map[string]string) {
	for name, value := range values {
		if value == "" {
			log.Fatalf("-%s is required for this command", name)
		}
	}
}
