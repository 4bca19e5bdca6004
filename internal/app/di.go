package app

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/notWeev/warsztat-samochodowy/internal/config"
	"github.com/notWeev/warsztat-samochodowy/internal/migrator"
	custrepo "github.com/notWeev/warsztat-samochodowy/internal/repository/customer"
	ordrepo "github.com/notWeev/warsztat-samochodowy/internal/repository/order"
	ordpartrepo "github.com/notWeev/warsztat-samochodowy/internal/repository/orderpart"
	partrepo "github.com/notWeev/warsztat-samochodowy/internal/repository/part"
	userrepo "github.com/notWeev/warsztat-samochodowy/internal/repository/user"
	vehiclerepo "github.com/notWeev/warsztat-samochodowy/internal/repository/vehicle"
	authsvc "github.com/notWeev/warsztat-samochodowy/internal/service/auth"
	custsvc "github.com/notWeev/warsztat-samochodowy/internal/service/customer"
	ordsvc "github.com/notWeev/warsztat-samochodowy/internal/service/order"
	ordpartsvc "github.com/notWeev/warsztat-samochodowy/internal/service/orderpart"
	partsvc "github.com/notWeev/warsztat-samochodowy/internal/service/part"
	ordproducer "github.com/notWeev/warsztat-samochodowy/internal/service/producer/order"
	usersvc "github.com/notWeev/warsztat-samochodowy/internal/service/user"
	vehiclesvc "github.com/notWeev/warsztat-samochodowy/internal/service/vehicle"
	authhttp "github.com/notWeev/warsztat-samochodowy/internal/transport/http/auth/v1"
	custhttp "github.com/notWeev/warsztat-samochodowy/internal/transport/http/customer/v1"
	"github.com/notWeev/warsztat-samochodowy/internal/transport/http/middleware"
	ordhttp "github.com/notWeev/warsztat-samochodowy/internal/transport/http/order/v1"
	parthttp "github.com/notWeev/warsztat-samochodowy/internal/transport/http/part/v1"
	userhttp "github.com/notWeev/warsztat-samochodowy/internal/transport/http/user/v1"
	vehiclehttp "github.com/notWeev/warsztat-samochodowy/internal/transport/http/vehicle/v1"
	"github.com/notWeev/warsztat-samochodowy/platform/closer"
	"github.com/notWeev/warsztat-samochodowy/platform/kafka"
	"github.com/notWeev/warsztat-samochodowy/platform/kafka/producer"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

type Handler interface {
	Register(r chi.Router)
}

type AuthHandler interface {
	Handler
	RegisterProtected(r chi.Router)
}

type OrderRepository interface {
	ordsvc.OrderRepository
	ordpartsvc.OrderRepository
}

type UserRepository interface {
	usersvc.UserRepository
	authsvc.UserRepository
}

type AuthService interface {
	authhttp.AuthService
	middleware.TokenVerifier
}

type di struct {
	dbPool   *pgxpool.Pool
	migrator *migrator.Migrator

	partRepository      partsvc.PartRepository
	orderRepository     OrderRepository
	orderPartRepository ordpartsvc.OrderPartRepository
	customerRepository  custsvc.CustomerRepository
	vehicleRepository   vehiclesvc.VehicleRepository
	userRepository      UserRepository

	syncProducer           sarama.SyncProducer
	orderCompletedProducer kafka.Producer
	orderProducer          ordsvc.OrderCompletedSender

	partService      parthttp.PartService
	orderService     ordhttp.OrderService
	orderPartService ordhttp.OrderPartService
	customerService  custhttp.CustomerService
	vehicleService   vehicleService
	userService      userhttp.UserService
	authService      AuthService

	partHandler     Handler
	orderHandler    Handler
	customerHandler Handler
	vehicleHandler  Handler
	userHandler     Handler
	authHandler     AuthHandler

	router *chi.Mux
}

type vehicleService interface {
	vehiclehttp.VehicleService
	custhttp.VehicleLister
}

func NewDI() *di { return &di{} }

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) PartRepository(ctx context.Context) partsvc.PartRepository {
	if d.partRepository == nil {
		d.partRepository = partrepo.NewPartRepository(d.DBPool(ctx))
	}

	return d.partRepository
}

func (d *di) OrderRepository(ctx context.Context) OrderRepository {
	if d.orderRepository == nil {
		d.orderRepository = ordrepo.NewOrderRepository(d.DBPool(ctx))
	}

	return d.orderRepository
}

func (d *di) OrderPartRepository(ctx context.Context) ordpartsvc.OrderPartRepository {
	if d.orderPartRepository == nil {
		d.orderPartRepository = ordpartrepo.NewOrderPartRepository(d.DBPool(ctx))
	}

	return d.orderPartRepository
}

func (d *di) CustomerRepository(ctx context.Context) custsvc.CustomerRepository {
	if d.customerRepository == nil {
		d.customerRepository = custrepo.NewCustomerRepository(d.DBPool(ctx))
	}

	return d.customerRepository
}

func (d *di) VehicleRepository(ctx context.Context) vehiclesvc.VehicleRepository {
	if d.vehicleRepository == nil {
		d.vehicleRepository = vehiclerepo.NewVehicleRepository(d.DBPool(ctx))
	}

	return d.vehicleRepository
}

func (d *di) UserRepository(ctx context.Context) UserRepository {
	if d.userRepository == nil {
		d.userRepository = userrepo.NewUserRepository(d.DBPool(ctx))
	}

	return d.userRepository
}

func (d *di) SyncProducer(ctx context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.OrderCompletedProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) OrderCompletedProducer(ctx context.Context) kafka.Producer {
	if d.orderCompletedProducer == nil {
		d.orderCompletedProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.OrderCompletedTopic(),
			logger.L(),
		)
	}

	return d.orderCompletedProducer
}

func (d *di) OrderProducer(ctx context.Context) ordsvc.OrderCompletedSender {
	if d.orderProducer == nil {
		d.orderProducer = ordproducer.NewOrderProducer(
			d.OrderCompletedProducer(ctx),
		)
	}

	return d.orderProducer
}

func (d *di) PartService(ctx context.Context) parthttp.PartService {
	if d.partService == nil {
		d.partService = partsvc.NewPartService(
			d.PartRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.partService
}

func (d *di) OrderService(ctx context.Context) ordhttp.OrderService {
	if d.orderService == nil {
		d.orderService = ordsvc.NewOrderService(
			d.OrderRepository(ctx),
			d.CustomerRepository(ctx),
			d.VehicleRepository(ctx),
			d.UserRepository(ctx),
			d.OrderProducer(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.orderService
}

func (d *di) OrderPartService(ctx context.Context) ordhttp.OrderPartService {
	if d.orderPartService == nil {
		d.orderPartService = ordpartsvc.NewOrderPartService(
			d.OrderPartRepository(ctx),
			d.OrderRepository(ctx),
			d.PartService(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.orderPartService
}

func (d *di) CustomerService(ctx context.Context) custhttp.CustomerService {
	if d.customerService == nil {
		d.customerService = custsvc.NewCustomerService(
			d.CustomerRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.customerService
}

func (d *di) VehicleService(ctx context.Context) vehicleService {
	if d.vehicleService == nil {
		d.vehicleService = vehiclesvc.NewVehicleService(
			d.VehicleRepository(ctx),
			d.CustomerRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.vehicleService
}

func (d *di) UserService(ctx context.Context) userhttp.UserService {
	if d.userService == nil {
		d.userService = usersvc.NewUserService(
			d.UserRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.userService
}

func (d *di) AuthService(ctx context.Context) AuthService {
	if d.authService == nil {
		d.authService = authsvc.NewAuthService(
			d.UserRepository(ctx),
			config.C().Auth.JWTSecret(),
			config.C().Auth.TokenTTL(),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.authService
}

func (d *di) PartHandler(ctx context.Context) Handler {
	if d.partHandler == nil {
		d.partHandler = parthttp.NewPartHandler(d.PartService(ctx))
	}

	return d.partHandler
}

func (d *di) OrderHandler(ctx context.Context) Handler {
	if d.orderHandler == nil {
		d.orderHandler = ordhttp.NewOrderHandler(
			d.OrderService(ctx),
			d.OrderPartService(ctx),
		)
	}

	return d.orderHandler
}

func (d *di) CustomerHandler(ctx context.Context) Handler {
	if d.customerHandler == nil {
		d.customerHandler = custhttp.NewCustomerHandler(
			d.CustomerService(ctx),
			d.VehicleService(ctx),
		)
	}

	return d.customerHandler
}

func (d *di) VehicleHandler(ctx context.Context) Handler {
	if d.vehicleHandler == nil {
		d.vehicleHandler = vehiclehttp.NewVehicleHandler(d.VehicleService(ctx))
	}

	return d.vehicleHandler
}

func (d *di) UserHandler(ctx context.Context) Handler {
	if d.userHandler == nil {
		d.userHandler = userhttp.NewUserHandler(d.UserService(ctx))
	}

	return d.userHandler
}

func (d *di) AuthHandler(ctx context.Context) AuthHandler {
	if d.authHandler == nil {
		d.authHandler = authhttp.NewAuthHandler(d.AuthService(ctx))
	}

	return d.authHandler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
