package cmd

import (
	"context"
	"sort"
	"strings"

	"lendex/pkg/id"
	"lendex/pkg/resthttp"

	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

func apiURL(cmd *cobra.Command, path string) string {
	api, _ := cmd.Flags().GetString("api")
	return strings.TrimSuffix(api, "/") + path
}

// postExecute submit an execute message to a running server
func postExecute(ctx context.Context, url string, body, resp interface{}) error {
	r, err := resthttp.WithRequestID(ctx, id.GenTraceID()).
		SetBody(body).
		Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(r, resp)
}

func getQuery(ctx context.Context, url string, query map[string]string, resp interface{}) error {
	r, err := resthttp.Request(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(r, resp)
}

// printStruct print the fields of v sorted by their json name
func printStruct(cmd *cobra.Command, v interface{}) {
	m := structs.Map(v)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%s: %v\n", k, m[k])
	}
}

func addAPIFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().String("api", "http://localhost:9000", "lendex api server")
	}
}
