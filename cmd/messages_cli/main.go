package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"message-admin/internal/config"
	"message-admin/internal/db"
	"message-admin/internal/domain"
	"message-admin/internal/service"
	"message-admin/internal/view"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	store, closeStore, err := db.OpenMessageStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	svc := service.NewMessageService(logger, store)

	for {
		fmt.Println("===== Messages =====")
		fmt.Println("[L] List  [S] Show  [C] Create  [E] Edit  [D] Delete  [Q] Quit")
		fmt.Print("> ")
		choice, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return
		}
		switch strings.ToUpper(strings.TrimSpace(choice)) {
		case "L":
			err = listMessages(ctx, svc, os.Stdout)
		case "S":
			err = showMessage(ctx, reader, svc)
		case "C":
			err = createMessage(ctx, reader, svc)
		case "E":
			err = editMessage(ctx, reader, svc)
		case "D":
			err = deleteMessage(ctx, reader, svc)
		case "Q":
			return
		default:
			fmt.Println("Seleccion invalida.")
			continue
		}
		if err != nil {
			fmt.Printf("error (%s): %v\n", domain.KindOf(err), err)
		}
	}
}

func listMessages(ctx context.Context, svc *service.MessageService, out io.Writer) error {
	messages, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Fprintln(out, "No messages available. Use [C] to create one.")
		return nil
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Title", "Date Created"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, m := range messages {
		table.Append([]string{
			strconv.FormatInt(m.ID, 10),
			view.Truncate(m.MessageText, 25),
			m.CreatedAt.Format("Mon Jan 02 2006"),
		})
	}
	table.Render()
	return nil
}

func showMessage(ctx context.Context, reader *bufio.Reader, svc *service.MessageService) error {
	id, err := promptID(reader)
	if err != nil {
		return err
	}
	msg, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("#%d (%s)\n%s\n", msg.ID, msg.CreatedAt.Format("Mon Jan 02 2006 15:04"), msg.MessageText)
	return nil
}

func createMessage(ctx context.Context, reader *bufio.Reader, svc *service.MessageService) error {
	text := prompt(reader, "Message: ")
	msg, err := svc.Create(ctx, domain.MessageDraft{MessageText: text})
	if err != nil {
		return err
	}
	fmt.Printf("Created message #%d\n", msg.ID)
	return nil
}

func editMessage(ctx context.Context, reader *bufio.Reader, svc *service.MessageService) error {
	id, err := promptID(reader)
	if err != nil {
		return err
	}
	current, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Current: %s\n", current.MessageText)
	text := prompt(reader, "New text (empty keeps current): ")
	state := view.NewFormState(view.MessageFields{MessageText: current.MessageText})
	if text != "" {
		state.Edit(view.MessageFields{MessageText: text})
	}
	if !state.CanSave() {
		fmt.Println("Nothing to save.")
		return nil
	}
	err = runFormAction(&state, view.PendingSave, func() error {
		_, err := svc.Update(ctx, id, domain.MessagePatch{MessageText: &state.Current.MessageText})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("Updated message #%d\n", id)
	return nil
}

func deleteMessage(ctx context.Context, reader *bufio.Reader, svc *service.MessageService) error {
	id, err := promptID(reader)
	if err != nil {
		return err
	}
	current, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	state := view.NewFormState(view.MessageFields{MessageText: current.MessageText})
	if !state.CanDelete(true) {
		return nil
	}
	fmt.Printf("#%d: %s\n", current.ID, view.Truncate(current.MessageText, 25))
	if !strings.EqualFold(prompt(reader, "Are you sure you want to delete this message? [y/N]: "), "y") {
		return nil
	}
	err = runFormAction(&state, view.PendingDelete, func() error {
		return svc.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Deleted message #%d\n", id)
	return nil
}

// runFormAction marca la acción en vuelo mientras corre run: Commit si sale bien,
// Abort si falla. Con otra acción pendiente devuelve view.ErrActionInFlight sin correr run.
func runFormAction(state *view.FormState, action view.PendingAction, run func() error) error {
	if err := state.Begin(action); err != nil {
		return err
	}
	if err := run(); err != nil {
		state.Abort()
		return err
	}
	state.Commit()
	return nil
}

func promptID(reader *bufio.Reader) (int64, error) {
	raw := prompt(reader, "Message ID: ")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.InvalidArgument("prompt", "invalid message id")
	}
	return id, nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
