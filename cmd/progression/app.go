package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-progression/internal/adapters/rpgtoolkit"
	"github.com/KirkDiggler/dnd-progression/internal/clients/dnd5e"
	"github.com/KirkDiggler/dnd-progression/internal/config"
	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-progression/internal/services"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
)

// app carries what the commands need. Tests fill it in directly and the
// setup step is skipped.
type app struct {
	service progressionService.Service
	engine  *progression.Engine
	cleanup func()

	// persistent is false when records only live for this process
	persistent bool

	ownerID   string
	timeout   time.Duration
	logEvents bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "progression",
		Short: "D&D 5e character progression",
		Long:  `Create characters, level them up and track their resources under the 5e rules.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.ownerID, "owner", "local", "Owner ID for new characters")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "Request timeout")
	root.PersistentFlags().BoolVar(&a.logEvents, "events", false, "Log every progression event")

	root.AddCommand(
		newCreateCmd(a),
		newShowCmd(a),
		newLevelUpCmd(a),
		newASICmd(a),
		newSubclassCmd(a),
		newXPCmd(a),
		newExpendCmd(a),
		newDamageCmd(a),
		newRestCmd(a),
		newValidateScoresCmd(a),
		newSlotsCmd(a),
	)
	return root
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *app) setup(ctx context.Context) error {
	if a.service != nil && a.engine != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	providerConfig := &services.ProviderConfig{
		HitPointMethod:    cfg.Rules.HitPointMethod,
		RequireExperience: cfg.Rules.RequireExperience,
	}

	if cfg.DND5E.Enabled {
		dndClient, err := dnd5e.New(&dnd5e.Config{
			HttpClient: &http.Client{Timeout: 10 * time.Second},
			BaseURL:    cfg.DND5E.BaseURL,
		})
		if err != nil {
			return err
		}
		providerConfig.DNDClient = dndClient

		loadCtx, cancel := context.WithTimeout(ctx, a.timeout)
		rules, err := dnd5e.LoadRules(loadCtx, dndClient, nil)
		cancel()
		if err != nil {
			log.Printf("[DND5E] Using bundled races only: %v", err)
		} else {
			providerConfig.Rules = rules
		}
	}

	if cfg.Redis.Enabled() {
		opts, err := cfg.Redis.Options()
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return err
		}
		log.Printf("[REDIS] Connected to %s", opts.Addr)
		providerConfig.CharacterRepository = characters.NewRedis(client)
		a.persistent = true
		a.addCleanup(func() {
			if err := client.Close(); err != nil {
				log.Printf("[REDIS] Failed to close client: %v", err)
			}
		})
	} else {
		log.Println("No Redis configured, using in-memory repository")
	}

	provider := services.NewProvider(providerConfig)
	a.service = provider.ProgressionService
	a.engine = provider.Engine

	if a.logEvents {
		logger := rpgtoolkit.SubscribeLogger(provider.Publisher, log.Printf)
		a.addCleanup(func() {
			_ = logger.Close()
		})
	}
	return nil
}

// addCleanup runs fn before any cleanup registered earlier
func (a *app) addCleanup(fn func()) {
	prev := a.cleanup
	a.cleanup = func() {
		fn()
		if prev != nil {
			prev()
		}
	}
}
