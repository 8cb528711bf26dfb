package main

import (
	"context"
	"database/sql"
	"fmt"
)

// CalendarFactory builds the host calendar binding recorded for an account.
type CalendarFactory struct {
	config *Config
	db     *sql.DB
	ctx    context.Context
}

func NewCalendarFactory(ctx context.Context, config *Config, db *sql.DB) *CalendarFactory {
	return &CalendarFactory{
		config: config,
		db:     db,
		ctx:    ctx,
	}
}

// ProviderForAccount returns the binding for a linked account. A missing
// account row is not an error: the caller gets a nil provider and the
// permission gate turns that into its remediation path.
func (cf *CalendarFactory) ProviderForAccount(accountName string) (CalendarProvider, error) {
	var providerType, providerConfig, calendarID string
	err := cf.db.QueryRow(
		"SELECT provider_type, provider_config, calendar_id FROM accounts WHERE account_name = ?",
		accountName).Scan(&providerType, &providerConfig, &calendarID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying account %s: %w", accountName, err)
	}

	switch providerType {
	case "google":
		return NewGoogleCalendarProvider(cf.ctx, cf.db, accountName, calendarID)

	case "caldav":
		if providerConfig == "" || providerConfig == "default" {
			return nil, fmt.Errorf("account references removed legacy CalDAV configuration; please remove and re-add this account")
		}
		server, ok := cf.config.CalDAVs[providerConfig]
		if !ok {
			return nil, fmt.Errorf("CalDAV server '%s' not found in configuration", providerConfig)
		}
		return NewCalDAVProvider(cf.ctx, server.ServerURL, server.Username, server.Password, calendarID)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
