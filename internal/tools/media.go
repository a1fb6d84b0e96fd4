package tools

import (
	"context"
	"os"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// ---------------------------------------------------------------------------
// SendFile

type sendFileArgs struct {
	DialogID int64  `json:"dialog_id"`
	Path     string `json:"path"`
	Caption  string `json:"caption"`
}

func sendFile() Definition {
	return define(
		"SendFile",
		"Send a file from the local filesystem to a dialog, chat, or channel. "+
			"Image files are sent as photos, everything else as a document. An "+
			"optional caption is attached to the file.",
		schema.Object(map[string]*schema.Property{
			"dialog_id": {Type: "integer", Description: "Dialog, chat or channel ID"},
			"path":      {Type: "string", Description: "Path of the file to send"},
			"caption":   {Type: "string", Description: "Caption attached to the file"},
		}, "dialog_id", "path"),
		sendFileArgs{},
		runSendFile,
	)
}

func runSendFile(ctx context.Context, sess *telegram.Session, args sendFileArgs) ([]schema.Content, error) {
	id, err := sess.SendFile(args.DialogID, args.Path, args.Caption)
	if err != nil {
		return schema.TextResult("Failed to send file: %v", err), nil
	}
	return schema.TextResult("File sent successfully. Message ID: %d", id), nil
}

// ---------------------------------------------------------------------------
// DownloadMedia

type downloadMediaArgs struct {
	DialogID  int64  `json:"dialog_id"`
	MessageID int    `json:"message_id"`
	Path      string `json:"path"`
}

func downloadMedia() Definition {
	return define(
		"DownloadMedia",
		"Download the media attached to a message. Returns the path of the "+
			"downloaded file; photos are additionally returned inline as image "+
			"content.",
		schema.Object(map[string]*schema.Property{
			"dialog_id":  {Type: "integer", Description: "Dialog, chat or channel ID"},
			"message_id": {Type: "integer", Description: "ID of the message carrying the media"},
			"path":       {Type: "string", Description: "Destination path; empty saves under the media directory"},
		}, "dialog_id", "message_id"),
		downloadMediaArgs{},
		runDownloadMedia,
	)
}

func runDownloadMedia(ctx context.Context, sess *telegram.Session, args downloadMediaArgs) ([]schema.Content, error) {
	path, kind, err := sess.Download(args.DialogID, args.MessageID, args.Path)
	if err != nil {
		return schema.TextResult("Failed to download media: %v", err), nil
	}
	items := []schema.Content{schema.NewTextf("Media saved to %s", path)}
	if kind == "photo" {
		if data, err := os.ReadFile(path); err == nil {
			items = append(items, schema.NewImage(data, "image/jpeg"))
		}
	}
	return items, nil
}
