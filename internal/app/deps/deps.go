package deps

import (
	"context"
	"passreset/internal/config"
	dl "passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	duow "passreset/internal/core/domain/unit_of_work"
	"passreset/internal/core/domain/user"
	dbpasswordreset "passreset/internal/db/password_reset"
	uow "passreset/internal/db/unit_of_work"
	dbuser "passreset/internal/db/user"
	"passreset/internal/implementations/audit"
	"passreset/internal/implementations/email"
	"passreset/internal/implementations/logging"
	passwordhasher "passreset/internal/implementations/password_hasher"
	redisresettokenstore "passreset/internal/implementations/redis_reset_token_store"
	resettokencodec "passreset/internal/implementations/reset_token_codec"
	"passreset/internal/rabbitmq"
	passwordresetemail "passreset/internal/rabbitmq/publishers/password_reset_email"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger
	Registry  *prometheus.Registry

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork                   duow.UnitOfWork
	UserRepository               user.UserRepository
	PasswordResetTokenRepository passwordreset.Repository

	PasswordHasher          user.PasswordHasher
	PasswordResetTokenCodec passwordreset.TokenCodec
	PasswordResetAuditor    passwordreset.Auditor

	// SESEmailSender talks to SES directly, EmailSender is what the reset
	// flow hands emails to and may be a queue publisher.
	SESEmailSender *email.EmailSender
	EmailSender    passwordreset.EmailSender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	deps.initRegistry()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.initPasswordResetTokenStore()

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetTokenCodec = resettokencodec.NewCodec()
	deps.PasswordResetAuditor = audit.NewAuditor(deps.Logger, deps.Registry)

	deps.SESEmailSender = email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailPasswordResetTemplate,
	)
	deps.EmailSender = deps.SESEmailSender
	closeEmailPublisher := deps.initRabbitmqEmailPublisher()

	return deps, func() {
		closeFuncs := []func(){
			closeEmailPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initRegistry() {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Registry = registry
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if !deps.Config.IsRedisTokenStore() {
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if deps.Config.RabbitmqURL == "" {
		return func() {}
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

// initPasswordResetTokenStore picks the token backend. With Redis the tokens
// live outside of the SQL transaction, the unit of work hands out the store as is.
func (deps *Deps) initPasswordResetTokenStore() {
	if deps.Config.IsRedisTokenStore() {
		store := redisresettokenstore.NewStore(deps.Redis, redisresettokenstore.DefaultPrefix)
		deps.PasswordResetTokenRepository = store
		deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB, uow.StaticTokenRepositoryFactory(store))
		return
	}
	deps.PasswordResetTokenRepository = dbpasswordreset.NewPgxRepository(deps.DB)
	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB, uow.PgxTokenRepositoryFactory)
}

func (deps *Deps) initRabbitmqEmailPublisher() func() {
	if !deps.Config.IsQueuedMailDelivery() {
		return func() {}
	}

	rabbitmqChannel := deps.OpenPasswordResetEmailChannel()
	deps.EmailSender = passwordresetemail.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		"",
		deps.Config.RabbitmqPasswordResetEmailQueue,
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down password reset email publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Password reset email publisher shut down.")
	}
}

// OpenPasswordResetEmailChannel opens a channel with the reset email queue
// declared on it.
func (deps *Deps) OpenPasswordResetEmailChannel() *rabbitmq.Channel {
	if deps.Rabbitmq == nil {
		panic("RABBITMQ_URL must be set to use the password reset email queue")
	}
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	queue := deps.Config.RabbitmqPasswordResetEmailQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not create RabbitMQ queue.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}
	return rabbitmqChannel
}
