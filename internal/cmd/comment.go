package cmd

import (
	"context"
	"log/slog"

	"reelfeed/internal/cmd/flags"
	"reelfeed/internal/realtime"
	"reelfeed/internal/store/postgres"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var commentCmd = &cli.Command{
	Name:  "comment",
	Usage: "Insert a comment and broadcast it to watching clients",
	Flags: []cli.Flag{
		flags.PostgresDSN,
		flags.NATSUrl,
		flags.Post,
		flags.Author,
		flags.Body,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&postgres.DB{}),
			pal.Provide(&postgres.Repository{}),
			pal.Provide(&realtime.NATS{}),
			pal.Provide(&commenter{
				postID:   c.String("post"),
				authorID: c.String("author"),
				body:     c.String("body"),
			}),
		)
	},
}

type commenter struct {
	Logger *slog.Logger
	Store  *postgres.Repository
	NATS   *realtime.NATS

	postID   string
	authorID string
	body     string
}

func (cm *commenter) Run(ctx context.Context) error {
	event, err := cm.Store.InsertComment(ctx, cm.postID, cm.authorID, cm.body)
	if err != nil {
		return err
	}

	if err := cm.NATS.PublishComment(ctx, event); err != nil {
		return err
	}

	cm.Logger.Info("comment published", "comment", event.CommentID, "post", event.PostID)
	return nil
}
