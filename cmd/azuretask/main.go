// Command azuretask runs one AI task against a configured Azure OpenAI
// entry. Entries live in a SQLite store; the first run can create one with
// -endpoint and -api-key, after which -entry selects it by ID.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/loryanstrant/azure-ai-tasks/attachment"
	"github.com/loryanstrant/azure-ai-tasks/config"
	"github.com/loryanstrant/azure-ai-tasks/conversation"
	"github.com/loryanstrant/azure-ai-tasks/core/task"
	"github.com/loryanstrant/azure-ai-tasks/entity"
	"github.com/loryanstrant/azure-ai-tasks/observability"
	"github.com/loryanstrant/azure-ai-tasks/plugin"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to service config JSON file")
		entryID     = flag.String("entry", "", "Configuration entry ID to use (default: first stored entry)")
		endpoint    = flag.String("endpoint", "", "Azure OpenAI endpoint (creates a new entry with -api-key)")
		apiKey      = flag.String("api-key", "", "Azure OpenAI API key (used with -endpoint)")
		chatModel   = flag.String("chat-model", "", "Chat model deployment name (used with -endpoint)")
		imageModel  = flag.String("image-model", "", "Image model deployment name (used with -endpoint)")
		instruction = flag.String("instructions", "", "Task instructions (required)")
		attachRefs  = flag.String("attachments", "", "Comma-separated attachment references (URLs, paths, media-source IDs)")
		genImage    = flag.Bool("image", false, "Run a generate-image task instead of generate-data")
		outFile     = flag.String("out", "generated.png", "Output file for generated images")
		structured  = flag.String("structure", "", "JSON schema; when set the response is parsed as structured JSON")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *instruction == "" {
		fmt.Fprintln(os.Stderr, "Usage: azuretask -instructions <text> [-entry <id> | -endpoint <url> -api-key <key>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	observer := observability.NewSlogObserver(logger)

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := config.NewSQLiteStore(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open entry store: %v", err)
	}
	defer store.Close()

	entry, err := selectEntry(ctx, store, *entryID, config.Settings{
		Endpoint:   *endpoint,
		APIKey:     *apiKey,
		ChatModel:  *chatModel,
		ImageModel: *imageModel,
	})
	if err != nil {
		log.Fatalf("Failed to select entry: %v", err)
	}

	resolver := attachment.NewResolver(
		attachment.WithMediaDirs(attachment.DefaultMediaDirs(cfg.MediaRoot)),
		attachment.WithObserver(observer),
	)

	registry := plugin.NewRegistry(
		plugin.WithStore(store),
		plugin.WithObserver(observer),
		plugin.WithEntityOptions(entity.WithResolver(resolver)),
	)

	ent, err := registry.SetupEntry(ctx, *entry)
	if err != nil {
		log.Fatalf("Failed to set up entry: %v", err)
	}

	req := task.Request{
		Instructions: *instruction,
		Attachments:  parseAttachments(*attachRefs),
	}
	if *structured != "" {
		req.Structure = json.RawMessage(*structured)
	}

	chatLog := conversation.NewLog()

	if *genImage {
		result, err := ent.GenerateImage(ctx, req, chatLog)
		if err != nil {
			log.Fatalf("Task failed: %v", err)
		}
		if err := os.WriteFile(*outFile, result.ImageData, 0o644); err != nil {
			log.Fatalf("Failed to write image: %v", err)
		}
		fmt.Printf("Wrote %s (%s, %dx%d)\nRevised prompt: %s\n",
			*outFile, result.MimeType, result.Width, result.Height, result.RevisedPrompt)
		return
	}

	result, err := ent.GenerateData(ctx, req, chatLog)
	if err != nil {
		log.Fatalf("Task failed: %v", err)
	}
	if result.Data != nil {
		out, _ := json.MarshalIndent(result.Data, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Println(result.Text)
	}
}

// selectEntry loads the requested entry, or creates one through the config
// flow when endpoint credentials are given, or falls back to the first
// stored entry.
func selectEntry(ctx context.Context, store config.Store, id string, input config.Settings) (*config.Entry, error) {
	if id != "" {
		return store.Load(ctx, id)
	}

	if input.Endpoint != "" {
		flow := config.NewFlow(store)
		entry, err := flow.CreateEntry(ctx, input)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Created entry %s\n", entry.ID)
		return entry, nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries stored; create one with -endpoint and -api-key")
	}
	return &entries[0], nil
}

// parseAttachments maps comma-separated references to attachments, guessing
// the reference kind the way the host would supply it.
func parseAttachments(refs string) []task.Attachment {
	if refs == "" {
		return nil
	}

	var attachments []task.Attachment
	for _, ref := range strings.Split(refs, ",") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		switch {
		case strings.HasPrefix(ref, "media-source://"), strings.Contains(ref, "local/"):
			attachments = append(attachments, task.Attachment{MediaContentID: ref})
		case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
			attachments = append(attachments, task.Attachment{
				MediaContentID:   ref,
				MediaContentType: "image/jpeg",
			})
		default:
			attachments = append(attachments, task.Attachment{Path: ref})
		}
	}
	return attachments
}
