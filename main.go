package main

import (
	"context"
	"time"

	"github.com/ansari-project/maix-server/config"
	"github.com/ansari-project/maix-server/controllers"
	"github.com/ansari-project/maix-server/core"
	"github.com/ansari-project/maix-server/models"
	"github.com/ansari-project/maix-server/providers/email"
	"github.com/ansari-project/maix-server/repos"
	"github.com/ansari-project/maix-server/server"
	"github.com/ansari-project/maix-server/utils"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

func main() {

	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Invoke(utils.ConfigureLogger),
		fx.Provide(config.Parse),
		fx.Invoke(func(config *config.Config) {
			utils.InitSharedConstants(*config.JwtParsedPublicKey)
		}),
		fx.Provide(config.ProvidePostgres),
		fx.Provide(config.ProvideRedis),
		fx.Provide(config.ProvideSmtp),
		fx.Provide(server.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Invoke(models.InitModelRegistrations),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(repos.NewOrganizationRepo),
		fx.Provide(repos.NewMembershipRepo),
		fx.Provide(repos.NewInvitationRepo),
		fx.Provide(repos.NewProjectRepo),
		fx.Provide(repos.NewProductRepo),
		fx.Provide(func(memberships *repos.MembershipRepo) *core.Evaluator {
			return core.NewEvaluator(memberships)
		}),
		fx.Provide(func(invitations *repos.InvitationRepo) *core.InvitationService {
			return core.NewInvitationService(invitations)
		}),
		fx.Provide(email.NewMailer),
		fx.Invoke(controllers.RegisterUserController),
		fx.Invoke(controllers.RegisterOrganizationController),
		fx.Invoke(controllers.RegisterInvitationController),
		fx.Invoke(controllers.RegisterProjectController),
		fx.Invoke(controllers.RegisterProductController),
		fx.Invoke(registerInvitationJanitor),
	}
}

// registerInvitationJanitor sweeps expired, never-redeemed invitations on an
// interval. A redis lease keeps the sweep single-flight across replicas; the
// sweep is safe to run alongside redemptions since it only touches PENDING
// rows past expiry, a set no redemption can claim.
func registerInvitationJanitor(lc fx.Lifecycle, config *config.Config, service *core.InvitationService, rdb *redis.Client) {
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(config.CleanupInterval)
				defer ticker.Stop()

				for {
					select {
					case <-stop:
						return
					case <-ticker.C:
						sweepExpiredInvitations(config, service, rdb)
					}
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
}

func sweepExpiredInvitations(config *config.Config, service *core.InvitationService, rdb *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	acquired, err := rdb.SetNX(ctx, "invitations:cleanup", 1, config.CleanupInterval/2).Result()
	if err != nil {
		log.Warn().Err(err).Msg("Could not acquire cleanup lease")
		return
	}

	if !acquired {
		return
	}

	count, err := service.CleanupExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Invitation cleanup failed")
		return
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("Removed expired invitations")
	}
}

func run(app *fiber.App, config *config.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}
