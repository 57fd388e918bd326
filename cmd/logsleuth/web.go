// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/korrel8r/logsleuth/internal/pkg/build"
	"github.com/korrel8r/logsleuth/internal/pkg/logging"
	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/mcp"
	"github.com/korrel8r/logsleuth/pkg/rest"
	"github.com/spf13/cobra"
)

var webCmd = &cobra.Command{
	Use:   "web [flags]",
	Short: "Start REST server. Listening address is provided via --http or --https, default is --http :8080.",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, args []string) {
		if *httpFlag == "" && *httpsFlag == "" {
			*httpFlag = ":8080" // Default if no port specified.
		}
		var s http.Server
		switch {
		case *httpFlag != "" && *httpsFlag != "":
			panic(errors.New("only one of --http or --https may be present"))
		case *httpFlag != "":
			s.Addr = *httpFlag
			if *certFlag != "" || *keyFlag != "" {
				panic(errors.New("--cert and --key not allowed with --http"))
			}
		case *httpsFlag != "":
			s.Addr = *httpsFlag
			if *certFlag == "" || *keyFlag == "" {
				panic(errors.New("--cert and --key are required for https"))
			}
		}

		a := newAnalyzer()
		gin.DefaultWriter = logging.LogWriter()
		gin.SetMode(gin.ReleaseMode)
		gin.DisableConsoleColor()
		router := gin.New()
		router.Use(gin.Recovery())
		opts := rest.Options{Profile: *profileFlag}
		if *mcpFlag {
			opts.MCP = mcp.NewServer(a).HTTPHandler()
			opts.MCPPath = mcp.StreamablePath
		}
		_ = must.Must1(rest.New(a, router, opts))
		s.Handler = router

		scheme := "http"
		if *httpsFlag != "" {
			scheme = "https"
		}
		log.Info("listening", "scheme", scheme, "addr", s.Addr, "version", build.Version, "root", a.Dir.Root, "mcp", *mcpFlag)
		var err error
		if *httpFlag != "" {
			err = s.ListenAndServe()
		} else {
			err = s.ListenAndServeTLS(*certFlag, *keyFlag)
		}
		must.Must(err, "%v server", scheme)
	},
}

var (
	httpFlag, httpsFlag *string
	certFlag, keyFlag   *string
	mcpFlag             *bool
	profileFlag         *bool
)

func init() {
	rootCmd.AddCommand(webCmd)
	httpFlag = webCmd.Flags().String("http", "", "host:port address for insecure http listener")
	httpsFlag = webCmd.Flags().String("https", "", "host:port address for secure https listener")
	certFlag = webCmd.Flags().String("cert", "", "TLS certificate file (PEM format) for https")
	keyFlag = webCmd.Flags().String("key", "", "Private key (PEM format) for https")
	mcpFlag = webCmd.Flags().Bool("mcp", true, "Serve the MCP streaming protocol at "+mcp.StreamablePath)
	profileFlag = webCmd.Flags().Bool("profile", false, "Serve profiling data under /debug/pprof")
}
