package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/uploader"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *clientConfig

	root := &cobra.Command{
		Use:          "gauctl",
		Short:        "Upload and browse videos on a gau video service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadClientConfig()
			return err
		},
	}

	client := func() *uploader.RecordClient {
		rc := uploader.NewRecordClient(cfg.APIURL, &http.Client{Timeout: cfg.Timeout})
		rc.Token = cfg.Token
		return rc
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "register <email> <password>",
			Short: "Create an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := client().Register(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "User registered successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "login <email> <password>",
			Short: "Print a session token for GAU_TOKEN",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				token, err := client().Login(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all videos",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				videos, err := client().ListVideos(cmd.Context())
				if err != nil {
					return err
				}
				for _, v := range videos {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", v.ID, v.Title, v.VideoURL)
				}
				return nil
			},
		},
		newUploadCmd(func() *clientConfig { return cfg }, client),
	)

	return root
}

func newUploadCmd(getCfg func() *clientConfig, client func() *uploader.RecordClient) *cobra.Command {
	var (
		title, description string
		width, height      int
		quality            int
	)

	cmd := &cobra.Command{
		Use:   "upload <video> <thumbnail>",
		Short: "Upload a video and thumbnail to the CDN and publish the record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()

			video, videoFile, err := uploader.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer videoFile.Close()

			thumb, thumbFile, err := uploader.OpenFile(args[1])
			if err != nil {
				return err
			}
			defer thumbFile.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := &syncWriter{w: cmd.OutOrStdout()}
			cdn := &uploader.ImageKitCDN{UploadURL: cfg.UploadURL, Client: &http.Client{}}
			publisher := uploader.NewPublisher(client(), cdn, newPrintObserver(out, "video"), newPrintObserver(out, "thumbnail"))
			publisher.VideoFlow.Folder = cfg.VideoFolder
			publisher.ThumbnailFlow.Folder = cfg.ThumbnailFolder

			in := uploader.PublishInput{
				Title:       title,
				Description: description,
				Video:       &video,
				Thumbnail:   &thumb,
			}
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") || cmd.Flags().Changed("quality") {
				in.Transformation = &entity.Transformation{Width: width, Height: height, Quality: quality}
			}

			record, err := publisher.Publish(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Published %s\n%s\n", record.ID, record.VideoURL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "video title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "video description")
	cmd.Flags().IntVar(&width, "width", entity.DefaultTransformationWidth, "rendition width")
	cmd.Flags().IntVar(&height, "height", entity.DefaultTransformationHeight, "rendition height")
	cmd.Flags().IntVar(&quality, "quality", entity.DefaultTransformationQuality, "rendition quality 0-100")
	return cmd
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type printObserver struct {
	w     io.Writer
	label string
}

func newPrintObserver(w io.Writer, label string) *printObserver {
	return &printObserver{w: w, label: label}
}

func (p *printObserver) OnStateChange(state uploader.State, err error) {
	if err != nil {
		fmt.Fprintf(p.w, "[%s] %s: %v\n", p.label, state, err)
		return
	}
	fmt.Fprintf(p.w, "[%s] %s\n", p.label, state)
}

func (p *printObserver) OnProgress(percent int) {
	fmt.Fprintf(p.w, "[%s] %d%%\n", p.label, percent)
}
