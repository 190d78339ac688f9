package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
)

func runCreateAdmin(ctx context.Context, e *env, args []string) error {
	fs := newFlags("create-admin")
	handle := fs.String("handle", "", "admin handle (required)")
	password := fs.String("password", "", "admin password (default: $KEYGATE_ADMIN_PASSWORD)")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	if *password == "" {
		*password = os.Getenv("KEYGATE_ADMIN_PASSWORD")
	}
	if *handle == "" || *password == "" {
		fs.PrintDefaults()
		return errors.New("--handle and a password are required")
	}

	hash, err := e.services.Hasher.Hash(*password)
	if err != nil {
		return err
	}
	admin, err := e.services.Bootstrap.CreateAdmin(ctx, strings.TrimSpace(*handle), hash)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "created admin %s (%s)\n", admin.Handle, admin.ID)
	return nil
}

func runIssueKey(ctx context.Context, e *env, args []string) error {
	fs := newFlags("issue-key")
	duration := fs.Duration("duration", 30*24*time.Hour, "entitlement length once activated")
	owner := fs.String("owner", "", "bind and activate the key for this handle")
	token := fs.String("token", "", "custom token instead of a generated one")
	count := fs.Int("count", 1, "number of keys to issue")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	if *count < 1 {
		return errors.New("--count must be at least 1")
	}
	if *token != "" && *count != 1 {
		return errors.New("--token issues exactly one key")
	}

	p := service.IssueKeyParams{Duration: *duration, CustomToken: *token}
	if *owner != "" {
		id, err := e.identityID(ctx, *owner)
		if err != nil {
			return err
		}
		p.OwnerID = id
	}

	for range *count {
		k, err := e.services.Entitlements.IssueKeyAsSystem(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s\t%s\texpires=%s\n", k.ID, k.Token, formatTime(k.ExpiresAt))
	}
	return nil
}

func runIssueInvite(ctx context.Context, e *env, args []string) error {
	fs := newFlags("issue-invite")
	as := fs.String("as", "", "handle of the staff identity creating the invites (required)")
	count := fs.Int("count", 1, "number of invites to issue")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	if *as == "" {
		fs.PrintDefaults()
		return errors.New("--as is required")
	}
	id, err := e.identityID(ctx, *as)
	if err != nil {
		return err
	}

	// Goes through the quota check like any other creator.
	for range *count {
		inv, err := e.services.Entitlements.GenerateInvite(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s\t%s\texpires=%s\n", inv.ID, inv.Code, formatTime(&inv.ExpiresAt))
	}
	return nil
}

func runCleanupKeys(ctx context.Context, e *env, args []string) error {
	fs := newFlags("cleanup-keys")
	days := fs.Int("older-than-days", 90, "only keys created before this many days ago")
	expired := fs.Bool("expired", false, "delete expired keys")
	revoked := fs.Bool("revoked", false, "delete revoked keys")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	if *days < 0 {
		return errors.New("--older-than-days must not be negative")
	}
	n, err := e.services.Entitlements.CleanupKeysAsSystem(ctx, *days, *expired, *revoked)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "deleted %d keys\n", n)
	return nil
}

func runStats(ctx context.Context, e *env, args []string) error {
	fs := newFlags("stats")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	s, err := e.services.Entitlements.KeyStatsAsSystem(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "total:      %d\n", s.Total)
	fmt.Fprintf(e.out, "expired:    %d\n", s.Expired)
	fmt.Fprintf(e.out, "revoked:    %d\n", s.Revoked)
	fmt.Fprintf(e.out, "older 30d:  %d\n", s.OlderThan30d)
	fmt.Fprintf(e.out, "older 90d:  %d\n", s.OlderThan90d)
	fmt.Fprintf(e.out, "older 180d: %d\n", s.OlderThan180d)
	return nil
}

func runSetLimits(ctx context.Context, e *env, args []string) error {
	current, err := e.services.Policy.Limits(ctx)
	if err != nil {
		return err
	}

	fs := newFlags("set-limits")
	admin := fs.Int("admin", current.Admin, "monthly invites per admin")
	support := fs.Int("support", current.Support, "monthly invites per support member")
	user := fs.Int("user", current.User, "monthly invites per user")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	l, err := e.services.Policy.Set(ctx, domain.RoleLimits{Admin: *admin, Support: *support, User: *user})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "admin=%d support=%d user=%d\n", l.Admin, l.Support, l.User)
	return nil
}

func runReconcile(ctx context.Context, e *env, args []string) error {
	fs := newFlags("reconcile")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	r, err := e.services.Reconcile.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "checked=%d entitled=%d revoked=%d skipped=%d failed=%d\n",
		r.Checked, r.Entitled, r.Revoked, r.Skipped, r.Failed)
	return nil
}
