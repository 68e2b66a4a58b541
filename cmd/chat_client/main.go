package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chatclient"
	"nexus_chat_service/internal/chatsync"
	"nexus_chat_service/pkg/config"
	"nexus_chat_service/pkg/logger"
	"nexus_chat_service/pkg/token"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type options struct {
	team    string
	project string
	debug   bool
	cfg     config.ChatClient
}

func main() {
	o := &options{}
	root := &cobra.Command{
		Use:          "chat_client",
		Short:        "Nexus team chat terminal client",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			o.load()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.team, "team", "", "team id")
	f.StringVar(&o.project, "project", "", "project id, empty for the team-level chat")
	f.BoolVar(&o.debug, "debug", false, "debug log to stderr")
	f.StringVar(&o.cfg.BaseURL, "base-url", "", "chat service REST endpoint")
	f.StringVar(&o.cfg.RealtimeURL, "realtime-url", "", "chat service websocket endpoint")
	f.StringVar(&o.cfg.GRPCAddr, "grpc-addr", "", "chat service grpc health address")
	f.StringVar(&o.cfg.Token, "token", "", "bearer token (default $CHAT_TOKEN)")

	root.AddCommand(tailCmd(o), sendCmd(o), notificationsCmd(o), healthCmd(o))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// load 讀 yaml, flag 優先
func (o *options) load() {
	logger.Log = logger.InitializeConsole(config.EnvConfig.ChatClient, o.debug)

	fileCfg, err := config.ReadConfig[config.ChatClient](config.EnvConfig.ChatClient, config.EnvConfig.ChatClientYAMLPath)
	if err != nil {
		logger.Log.Debug("chat_client config not loaded, using flags", zap.Error(err))
	}

	o.cfg.BaseURL = firstNonEmpty(o.cfg.BaseURL, fileCfg.BaseURL, "http://localhost:8082")
	o.cfg.RealtimeURL = firstNonEmpty(o.cfg.RealtimeURL, fileCfg.RealtimeURL, "ws://localhost:8082/realtime")
	o.cfg.GRPCAddr = firstNonEmpty(o.cfg.GRPCAddr, fileCfg.GRPCAddr, "localhost:9092")
	o.cfg.Token = firstNonEmpty(o.cfg.Token, os.Getenv("CHAT_TOKEN"), fileCfg.Token)
	o.cfg.Timeout = fileCfg.Timeout
	if o.cfg.Timeout <= 0 {
		o.cfg.Timeout = chatclient.DefaultTimeout
	}
	o.cfg.ReconnectInitial = fileCfg.ReconnectInitial
	o.cfg.ReconnectMax = fileCfg.ReconnectMax
}

func (o *options) api() (*chatclient.HTTPPersister, string, error) {
	if o.cfg.Token == "" {
		return nil, "", errors.New("token is required (--token or $CHAT_TOKEN)")
	}
	userID, err := token.UnverifiedUserID(o.cfg.Token)
	if err != nil {
		return nil, "", err
	}
	return chatclient.NewHTTPPersister(o.cfg.BaseURL, o.cfg.Token, o.cfg.Timeout), userID, nil
}

// session live=true 會載入歷史並訂閱 realtime feed
func (o *options) session(ctx context.Context, live bool, extra ...chatsync.Option) (*chatsync.Session, error) {
	api, userID, err := o.api()
	if err != nil {
		return nil, err
	}

	me := domain.Profile{UserID: userID}
	if p, err := api.FetchProfile(ctx, userID); err != nil {
		logger.Log.Debug("own profile lookup", zap.Error(err))
	} else {
		me = *p
	}

	opts := []chatsync.Option{
		chatsync.WithProfiles(api),
		chatsync.WithLogger(logger.Log.Zap()),
	}
	var feed chatsync.Feed
	if live {
		opts = append(opts, chatsync.WithHistory(api, 0))
		feed = chatclient.NewWebsocketFeed(o.cfg.RealtimeURL, o.cfg.Token,
			chatclient.WithExponentialBackOff(o.cfg.ReconnectInitial, o.cfg.ReconnectMax),
			chatclient.WithFeedLogger(logger.Log.Zap()),
		)
	}
	return chatsync.NewSession(domain.NewScope(o.team, o.project), me, api, feed, append(opts, extra...)...)
}

func tailCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Follow a conversation live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := o.session(ctx, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Start(ctx); err != nil {
				return err
			}

			v := newView(cmd.OutOrStdout())
			v.render(s.Status(), s.Rendered(time.Now()))
			for {
				select {
				case <-ctx.Done():
					return nil
				case _, ok := <-s.Updates():
					if !ok {
						return nil
					}
					v.render(s.Status(), s.Rendered(time.Now()))
				}
			}
		},
	}
}

func sendCmd(o *options) *cobra.Command {
	var metadata string
	cmd := &cobra.Command{
		Use:   "send [text]",
		Short: "Send one message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			var text string
			if len(args) == 1 {
				text = args[0]
			}
			msg, err := s.SendForm(cmd.Context(), chatsync.FormData{Content: text, Metadata: metadata})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", msg.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&metadata, "metadata", "", `JSON metadata, e.g. {"mentions":["user-b"]}`)
	return cmd
}

func notificationsCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List my mention notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, _, err := o.api()
			if err != nil {
				return err
			}
			list, err := api.ListNotifications(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, n := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s in %s: %s\n",
					n.CreatedAt.Local().Format("2006-01-02 15:04"), n.SenderID, n.TeamID, n.Preview)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max notifications")
	return cmd
}

func healthCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the chat service grpc health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := chatclient.CheckHealth(cmd.Context(), o.cfg.GRPCAddr, o.cfg.Timeout)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status.String())
			if status != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("chat service is %s", status)
			}
			return nil
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
