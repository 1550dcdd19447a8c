package main

import (
	"flag"
	"fmt"
	"os"

	"design-order-bot/internal/config"
	"design-order-bot/internal/dashboard"
	"design-order-bot/internal/jobs"
	"design-order-bot/internal/logger"
	ordersclient "design-order-bot/internal/orders/client"
)

func main() {
	var (
		cnf = &config.Conf{}

		configFile   = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		loggerConfig = flag.String("logger", "./config/logger.yml", "Usage: -logger=<logger_config_file>")
		addr         = flag.String("addr", "", "Orders API address, overrides config")
		refresh      = flag.String("refresh", "", "Refresh schedule, e.g. \"@every 30s\"")
		debug        = flag.Bool("debug", false, "Print debug information on stderr")
	)

	flag.Parse()

	logFile := logger.InitLogger("DASHBOARD", *debug, *loggerConfig)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := config.LoadClient(*configFile, cnf); err != nil {
		logger.Crit("Error while reading config!", err)
	}
	if *addr != "" {
		cnf.Orders.Addr = *addr
	}

	logger.Info("Orders API:", cnf.OrdersAddr()+cnf.Orders.Path)

	ctl := dashboard.New(ordersclient.New(cnf.OrdersAddr(), cnf.Orders.Path, cnf.Orders.Timeout))

	con := newConsole(ctl, os.Stdin, os.Stdout, cnf.Orders.Timeout)

	if *refresh != "" {
		job := jobs.NewRefreshJob(ctl, *refresh, cnf.Orders.Timeout)
		if err := job.Start(); err != nil {
			logger.Crit(err)
		}
		defer job.Stop()
		con.job = job
	}

	if err := con.exec("refresh"); err != nil {
		fmt.Fprintln(os.Stdout, err)
	}
	fmt.Fprintln(os.Stdout, "help - список команд")

	con.run()
}
