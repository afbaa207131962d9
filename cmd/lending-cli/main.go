// Command lending-cli is a terminal front end over the lending client
// session: list the catalog, register books and members, borrow and return.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shelfwise/lending/client"
	"github.com/shelfwise/lending/common/bootstrap"
	"github.com/shelfwise/lending/common/clients"
	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	opts := []bootstrap.Option{bootstrap.WithoutDB()}
	if os.Getenv("GUARD_TYPE") == "redis" {
		opts = append(opts, bootstrap.WithRedis())
	}

	components, err := bootstrap.Setup(ctx, "lending-cli", opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap lending-cli: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	ledger := clients.NewLedgerClient(
		components.Config.Client.LedgerURL,
		components.Config.Client.Timeout,
		components.Logger,
	)

	sessionID := uuid.NewString()

	var guard client.Guard
	if components.Config.Guard.Type == "redis" && components.Redis != nil {
		guard = client.NewRedisGuard(components.Redis, sessionID, components.Config.Guard.TTL, components.Logger)
	} else {
		guard = client.NewLocalGuard()
	}

	session := client.NewSession(
		sessionID,
		ledger,
		guard,
		components.Cache,
		components.Config.Cache.DefaultTTL,
		components.Logger,
	)

	root := newRootCmd(ctx, session)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(ctx context.Context, session *client.Session) *cobra.Command {
	root := &cobra.Command{
		Use:          "lending-cli",
		Short:        "Library catalog client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newBooksCmd(ctx, session),
		newMembersCmd(ctx, session),
		newAddBookCmd(ctx, session),
		newAddMemberCmd(ctx, session),
		newBorrowCmd(ctx, session),
		newReturnCmd(ctx, session),
	)

	return root
}
