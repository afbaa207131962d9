package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shelfwise/lending/client"
	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/validation"
	"github.com/spf13/cobra"
)

func newBooksCmd(ctx context.Context, session *client.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List all books",
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := session.ListBooks(ctx)
			if err != nil {
				return printableError(err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tSTATUS")
			for _, b := range books {
				status := "available"
				if !b.Available {
					status = "borrowed"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, status)
			}
			return w.Flush()
		},
	}
}

func newMembersCmd(ctx context.Context, session *client.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List all members",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := session.ListMembers(ctx)
			if err != nil {
				return printableError(err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, m := range members {
				fmt.Fprintf(w, "%d\t%s\n", m.ID, m.Name)
			}
			return w.Flush()
		},
	}
}

func newAddBookCmd(ctx context.Context, session *client.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "add-book <title> <author>",
		Short: "Register a new book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := session.AddBook(ctx, validation.AddBookInput{
				Title:  args[0],
				Author: args[1],
			})
			if err != nil {
				return printableError(err)
			}
			fmt.Printf("Added book %d: %s by %s\n", book.ID, book.Title, book.Author)
			return nil
		},
	}
}

func newAddMemberCmd(ctx context.Context, session *client.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <name>",
		Short: "Register a new member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			member, err := session.AddMember(ctx, validation.AddMemberInput{
				Name: args[0],
			})
			if err != nil {
				return printableError(err)
			}
			fmt.Printf("Added member %d: %s\n", member.ID, member.Name)
			return nil
		},
	}
}

func newBorrowCmd(ctx context.Context, session *client.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <book-id> <member-id>",
		Short: "Borrow a book for a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseBorrowReturnArgs(args)
			if err != nil {
				return err
			}
			book, err := session.BorrowBook(ctx, in)
			if err != nil {
				return printableError(err)
			}
			fmt.Printf("Borrowed book %d: %s\n", book.ID, book.Title)
			return nil
		},
	}
}

func newReturnCmd(ctx context.Context, session *client.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "return <book-id> <member-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseBorrowReturnArgs(args)
			if err != nil {
				return err
			}
			book, err := session.ReturnBook(ctx, in)
			if err != nil {
				return printableError(err)
			}
			fmt.Printf("Returned book %d: %s\n", book.ID, book.Title)
			return nil
		},
	}
}

func parseBorrowReturnArgs(args []string) (validation.BorrowReturnInput, error) {
	bookID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return validation.BorrowReturnInput{}, fmt.Errorf("invalid book id: %s", args[0])
	}
	memberID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return validation.BorrowReturnInput{}, fmt.Errorf("invalid member id: %s", args[1])
	}
	return validation.BorrowReturnInput{BookID: bookID, MemberID: memberID}, nil
}

// printableError renders domain errors the way the UI would: field messages
// for validation, a single banner line for everything else.
func printableError(err error) error {
	var le *lending.Error
	if !errors.As(err, &le) {
		return err
	}

	if le.Kind == lending.KindValidation && len(le.Fields) > 0 {
		for field, msg := range le.Fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return fmt.Errorf("invalid input")
	}

	return fmt.Errorf("%s", le.Message)
}
