package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/notify"
	testhelpers "github.com/polkiloo/restaurant/internal/test"
	"github.com/polkiloo/restaurant/internal/usecase"
	"github.com/polkiloo/restaurant/internal/worker"
)

const opsEmail = "ops@restaurant.test"

type facadeFixture struct {
	facade *RestaurantFacade
	users  *testhelpers.UserRepositoryStub
	orders *testhelpers.OrderRepositoryStub
	sender *testhelpers.SenderStub
	queue  *worker.MailQueue
}

func newFacadeFixture(policy usecase.NotifyPolicy, health HealthChecker) *facadeFixture {
	f := &facadeFixture{
		users:  testhelpers.NewUserRepositoryStub(),
		orders: &testhelpers.OrderRepositoryStub{},
		sender: &testhelpers.SenderStub{},
	}
	txm := testhelpers.NewTransactionManagerStub(f.users, f.orders)

	var sender notify.Sender = f.sender
	if policy == usecase.NotifyAsync {
		f.queue = worker.NewMailQueue(f.sender, worker.MailQueueOptions{Workers: 1, QueueSize: 8, MaxAttempts: 3, RetryDelay: time.Millisecond})
		f.queue.Start(context.Background())
		sender = f.queue
	}
	dispatcher := notify.NewDispatcher(sender, notify.Options{
		From:     "noreply@restaurant.test",
		OpsEmail: opsEmail,
		Queued:   policy == usecase.NotifyAsync,
	})

	logger := discardLogger()
	auth := usecase.NewAuthUseCase(f.users, txm, testhelpers.HasherStub{}, dispatcher, policy, logger)
	orders := usecase.NewOrderUseCase(f.orders, txm, dispatcher, policy, logger)
	f.facade = NewRestaurantFacade(auth, orders, health)
	return f
}

func TestRestaurantFacadeRegisterAndLogin(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyStrict, nil)
	ctx := context.Background()

	if err := f.facade.Register(ctx, "alice", "alice@example.com", "secret"); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if err := f.facade.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	if got := f.sender.SentCount(); got != 2 {
		t.Fatalf("expected welcome and login alert, got %d messages", got)
	}
	welcome, alert := f.sender.Sent[0], f.sender.Sent[1]
	if welcome.To != "alice@example.com" || welcome.Subject != notify.SubjectRegistrationWelcome {
		t.Fatalf("unexpected welcome %+v", welcome)
	}
	if alert.To != "alice@example.com" || alert.Subject != notify.SubjectLoginAlert {
		t.Fatalf("unexpected login alert %+v", alert)
	}
}

func TestRestaurantFacadeLoginRejectsBadCredentials(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyStrict, nil)
	ctx := context.Background()
	if err := f.facade.Register(ctx, "bob", "bob@example.com", "secret"); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	for _, tc := range []struct{ username, password string }{{"bob", "wrong"}, {"nobody", "secret"}} {
		err := f.facade.Login(ctx, tc.username, tc.password)
		if !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %q, got %v", tc.username, err)
		}
	}
	if got := f.sender.SentCount(); got != 1 {
		t.Fatalf("expected only the welcome email, got %d", got)
	}
}

func TestRestaurantFacadeStrictMailFailureRollsBack(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyStrict, nil)
	f.sender.Fn = func(int, model.Message) error { return errors.New("smtp unreachable") }
	ctx := context.Background()

	err := f.facade.Register(ctx, "carol", "carol@example.com", "secret")
	if domainErrors.KindOf(err) != domainErrors.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if f.users.Count() != 0 {
		t.Fatalf("user row must be rolled back")
	}

	name, email, phone, dish, quantity := testhelpers.RandomOrder()
	err = f.facade.SubmitOrder(ctx, model.Order{Name: name, Email: email, Phone: phone, Dish: dish, Quantity: quantity})
	if err == nil {
		t.Fatalf("expected order submission to fail")
	}
	if f.orders.Count() != 0 {
		t.Fatalf("order row must be rolled back")
	}
}

func TestRestaurantFacadeAsyncMailFailureKeepsRow(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyAsync, nil)
	f.sender.Fn = func(int, model.Message) error { return errors.New("smtp unreachable") }
	ctx := context.Background()

	if err := f.facade.Register(ctx, "dave", "dave@example.com", "secret"); err != nil {
		t.Fatalf("register must succeed in async mode: %v", err)
	}
	if f.users.Count() != 1 {
		t.Fatalf("expected user row to persist")
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := f.queue.Stop(stopCtx); err != nil {
		t.Fatalf("queue did not drain: %v", err)
	}
	if got := f.sender.Attempts(); got != 3 {
		t.Fatalf("expected 3 delivery attempts, got %d", got)
	}
}

func TestRestaurantFacadeSubmitOrder(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyStrict, nil)
	name, email, phone, dish, quantity := testhelpers.RandomOrder()
	order := model.Order{Name: name, Email: email, Phone: phone, Dish: dish, Quantity: quantity}

	if err := f.facade.SubmitOrder(context.Background(), order); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if f.orders.Count() != 1 {
		t.Fatalf("expected stored order")
	}
	if got := f.sender.SentCount(); got != 1 {
		t.Fatalf("expected ops alert, got %d messages", got)
	}
	if msg := f.sender.Sent[0]; msg.To != opsEmail || msg.Subject != notify.SubjectNewOrder {
		t.Fatalf("unexpected order alert %+v", msg)
	}
}

func TestRestaurantFacadeSubmitOrderMissingFields(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyStrict, nil)
	err := f.facade.SubmitOrder(context.Background(), model.Order{Name: "n", Email: "e", Phone: "p", Dish: "d"})
	if domainErrors.KindOf(err) != domainErrors.KindValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
	if f.sender.Attempts() != 0 {
		t.Fatalf("no email must be sent for invalid orders")
	}
}

func TestRestaurantFacadeHealthCheck(t *testing.T) {
	f := newFacadeFixture(usecase.NotifyStrict, testhelpers.HealthFacadeStub{Err: domainErrors.ErrUnavailable})
	if err := f.facade.HealthCheck(context.Background()); !errors.Is(err, domainErrors.ErrUnavailable) {
		t.Fatalf("expected health error to propagate, got %v", err)
	}
}
