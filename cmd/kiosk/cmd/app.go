package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/martclinic/kiosk/internal/apiclient"
	"github.com/martclinic/kiosk/internal/person"
	"github.com/martclinic/kiosk/internal/shared/config"
	"github.com/martclinic/kiosk/internal/shared/types"
	"github.com/martclinic/kiosk/internal/visit"
	"github.com/martclinic/kiosk/internal/waitlist"
)

// app holds what every subcommand shares. It is filled in by the root
// PersistentPreRunE.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	logger *slog.Logger
	closer io.Closer

	client   *apiclient.Client
	persons  person.Repository
	visits   visit.Repository
	waitlist waitlist.Repository
}

func (a *app) init(cfg *config.Config, logger *slog.Logger, closer io.Closer) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	client, err := apiclient.New(apiclient.ConfigFrom(cfg.API), logger)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	a.cfg = cfg
	a.loc = loc
	a.logger = logger
	a.closer = closer
	a.client = client
	a.persons = person.NewHTTPRepository(client)
	a.visits = visit.NewHTTPRepository(client)
	a.waitlist = waitlist.NewHTTPRepository(client)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// now is the wall clock in the configured zone
func (a *app) now() time.Time {
	return time.Now().In(a.loc)
}

func (a *app) clock() types.Clock { return a.now }

func (a *app) registrar() (*visit.Registrar, error) {
	mode, err := visit.ParsePhoneMode(a.cfg.Registration.PhoneMode)
	if err != nil {
		return nil, err
	}
	return visit.NewRegistrar(a.visits,
		visit.WithPhoneMode(mode),
		visit.WithInsuranceLabel(a.cfg.Registration.InsuranceLabel),
		visit.WithClock(a.clock()),
		visit.WithLogger(a.logger),
	), nil
}
