package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"eco-ui/config"
	"eco-ui/database"
	"eco-ui/logger"
	"eco-ui/web"
	"eco-ui/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	db, err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB(db)

	server := web.NewServer(db)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(db)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			return
		}
	}
}

func promoteAdmin(username string) {
	db, err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	userService := service.NewUserService(db)
	if err := userService.PromoteUser(username); err != nil {
		fmt.Printf("promote user '%s' failed: %v\n", username, err)
		os.Exit(1)
	}
	fmt.Printf("user '%s' is now an admin\n", username)
}

// seedSample creates a worked example: an ECO with an attachment, submitted
// and approved, plus its rendered report next to the database.
func seedSample() {
	db, err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	userService := service.NewUserService(db)
	ecoService := service.NewEcoService(db, userService)
	attachmentService := service.NewAttachmentService(db, config.GetAttachmentFolderPath(), userService)
	reportService := service.NewReportService(ecoService)

	fmt.Println("creating ECO...")
	id, err := ecoService.CreateEco("Project Apollo", "Upgrade the main propulsion system for better efficiency.", "Dr. Stone")
	if err != nil {
		fmt.Println("create failed:", err)
		os.Exit(1)
	}

	specsPath := filepath.Join(os.TempDir(), "specs.txt")
	if err := os.WriteFile(specsPath, []byte("Thrust: 5000kN\nISP: 450s"), 0o644); err == nil {
		if err := attachmentService.AddAttachment(id, "specs.txt", specsPath, "Dr. Stone"); err != nil {
			fmt.Println("attach failed:", err)
		}
		os.Remove(specsPath)
	}

	fmt.Println("submitting ECO...")
	if err := ecoService.SubmitEco(id, "Dr. Stone", "Ready for review."); err != nil {
		fmt.Println("submit failed:", err)
		os.Exit(1)
	}

	fmt.Println("approving ECO...")
	if err := ecoService.ApproveEco(id, "Admin", "Approved for launch."); err != nil {
		fmt.Println("approve failed:", err)
		os.Exit(1)
	}

	reportPath := filepath.Join(config.GetDBFolderPath(), "sample_report.md")
	if err := reportService.GenerateReport(id, reportPath); err != nil {
		fmt.Println("report failed:", err)
		os.Exit(1)
	}
	fmt.Println("done, report at", reportPath)
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use: "eco-ui",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "User administration",
	}

	promoteCmd := &cobra.Command{
		Use:   "promote <username>",
		Short: "Grant the admin flag to a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			promoteAdmin(args[0])
		},
	}
	adminCmd.AddCommand(promoteCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample ECO with attachment, history and report",
		Run: func(cmd *cobra.Command, args []string) {
			seedSample()
		},
	}

	rootCmd.AddCommand(runCmd, adminCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
