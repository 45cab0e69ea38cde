package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/belnav/belnav/client"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Live exploration sessions",
	}
	cmd.AddCommand(sessionCreateCmd())
	cmd.AddCommand(sessionGetCmd())
	cmd.AddCommand(sessionDeleteCmd())
	cmd.AddCommand(sessionWatchCmd())
	return cmd
}

func sessionCreateCmd() *cobra.Command {
	var shareURL string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start an exploration session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			snap, err := apiClient.Sessions.Create(context.Background(), shareURL)
			if err != nil {
				fatal("create session", err)
			}
			output(snap, snap.ID)
		},
	}
	cmd.Flags().StringVar(&shareURL, "restore", "", "Shared exploration link to restore")
	return cmd
}

func sessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a session snapshot",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			snap, err := apiClient.Sessions.Get(context.Background(), args[0])
			if err != nil {
				fatal("get session", err)
			}
			output(snap, snap.ID)
		},
	}
}

func sessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Sessions.Delete(context.Background(), args[0]); err != nil {
				fatal("delete session", err)
			}
			if flagFmt == "quiet" {
				formatQuiet(args[0])
				return
			}
			fmt.Printf("session %s closed\n", args[0])
		},
	}
}

func sessionWatchCmd() *cobra.Command {
	var withFrames bool
	var lastEventID uint64

	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Stream session events to the terminal",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sock, err := apiClient.Sessions.Attach(ctx, args[0], lastEventID)
			if err != nil {
				fatal("attach", err)
			}
			defer sock.Close() //nolint:errcheck

			colDim.Printf("watching session %s (ctrl-c to stop)\n", args[0])

			for {
				msg, err := sock.Next(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					fatal("read", err)
				}
				printServerMessage(msg, withFrames)
			}
		},
	}

	cmd.Flags().BoolVar(&withFrames, "frames", false, "Also print layout frames")
	cmd.Flags().Uint64Var(&lastEventID, "since", 0, "Replay events after this id")
	return cmd
}

func printServerMessage(msg *client.ServerMessage, withFrames bool) {
	switch msg.Type {
	case client.MessageFrame:
		if withFrames {
			colDim.Printf("frame  alpha=%.3f positions=%d\n", msg.Alpha, len(msg.Positions))
		}
	case client.MessageGraph:
		var p client.GraphPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.Graph == nil {
			colBad.Printf("graph  #%d undecodable payload\n", msg.ID)
			return
		}
		colGood.Printf("graph  #%d %d nodes %d edges (+%d new)\n", msg.ID, len(p.Graph.Nodes), len(p.Graph.Links), len(p.NewNodes))
	case client.MessageStyles:
		colInfo.Printf("styles #%d\n", msg.ID)
	case client.MessageHistory:
		var p client.HistoryPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		colInfo.Printf("url    #%d %s\n", msg.ID, p.URL)
	case client.MessageWarning:
		printNotice(colWarn, msg)
	case client.MessageError:
		printNotice(colBad, msg)
	case client.MessageReset:
		colWarn.Printf("reset  %s\n", msg.Reason)
	case client.MessageShutdown:
		colWarn.Println("server shutting down")
	default:
		colDim.Printf("%s #%d\n", msg.Type, msg.ID)
	}
}

func printNotice(col *color.Color, msg *client.ServerMessage) {
	var p client.NoticePayload
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		col.Printf("%s #%d\n", msg.Type, msg.ID)
		return
	}
	col.Printf("%s #%d %s: %s\n", msg.Type, msg.ID, p.Code, p.Message)
}
