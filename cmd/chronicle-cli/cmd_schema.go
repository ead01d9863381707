package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chroniclehq/chronicle/client"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the live content-type registry",
	}
	cmd.AddCommand(schemaPushCmd())
	cmd.AddCommand(schemaGetCmd())
	cmd.AddCommand(schemaListDriftHintCmd())
	cmd.AddCommand(schemaDeleteCmd())
	return cmd
}

func schemaPushCmd() *cobra.Command {
	var (
		file            string
		draftAndPublish bool
	)
	cmd := &cobra.Command{
		Use:   "push <uid>",
		Short: "Create or replace a content-type definition",
		Long: `Push a content-type definition into the live registry.

The attribute map is read as JSON from --file, or from stdin when
--file is "-". Example payload:

  {"title": {"type": "string", "required": true}, "body": {"type": "richtext"}}`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var data []byte
			var err error
			if file == "-" {
				data, err = readAllStdin()
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				fatal("read attributes", err)
			}

			var attrs map[string]client.Attribute
			if err := json.Unmarshal(data, &attrs); err != nil {
				fatal("parse attributes", err)
			}

			ct, err := apiClient.Schemas.Upsert(context.Background(), &client.ContentType{
				UID:             args[0],
				Attributes:      attrs,
				DraftAndPublish: draftAndPublish,
			})
			if err != nil {
				fatal("push schema", err)
			}
			output(ct, ct.UID)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON attribute map file (\"-\" for stdin)")
	cmd.Flags().BoolVar(&draftAndPublish, "draft-and-publish", false, "Content type uses draft/publish states")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func schemaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <uid>",
		Short: "Fetch a content-type definition from the registry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ct, err := apiClient.Schemas.Get(context.Background(), args[0])
			if err != nil {
				fatal("get schema", err)
			}
			output(ct, ct.UID)
		},
	}
}

func schemaDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uid>",
		Short: "Remove a content-type definition from the registry",
		Long: `Remove a content-type definition from the live registry.

Recorded versions of the type are kept; their history pages are
served without drift annotations until the type is pushed again.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Schemas.Delete(context.Background(), args[0]); err != nil {
				fatal("delete schema", err)
			}
			fmt.Printf("Deleted %s\n", args[0])
		},
	}
}

// schemaListDriftHintCmd surfaces drift for one document without a
// dedicated server endpoint: it fetches the newest version and prints
// its unknown-attribute annotation, if any.
func schemaListDriftHintCmd() *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "drift <content-type> <document-id>",
		Short: "Show schema drift for a document's newest version",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.VersionListOptions{Locale: locale, Page: 1, PageSize: 1}
			page, err := apiClient.History.ListVersions(context.Background(), args[0], args[1], opts)
			if err != nil {
				fatal("list versions", err)
			}
			if len(page.Versions) == 0 {
				fatal("drift", fmt.Errorf("no versions recorded for %s/%s", args[0], args[1]))
			}
			v := page.Versions[0]
			if v.Meta == nil {
				fmt.Println("No drift: the frozen schema matches the live definition.")
				return
			}
			output(v.Meta.UnknownAttributes, "drift")
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "Locale scope")
	return cmd
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}
