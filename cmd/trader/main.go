package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"deribit-trader/config"
	"deribit-trader/gateway"
	"deribit-trader/infrastructure/logger"
	"deribit-trader/metrics"
	"deribit-trader/monitor/logschema"
	"deribit-trader/order"

	"github.com/shopspring/decimal"
)

var appLog *logger.Logger

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	insecureTLS := flag.Bool("insecureTLS", false, "跳过 TLS 证书校验（仅限自签名测试环境）")
	metricsAddr := flag.String("metricsAddr", "", "Prometheus metrics 监听地址，留空则关闭")
	watchConfig := flag.Bool("watchConfig", false, "监听配置文件变更并提示重启")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	appLog, err = logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer appLog.Close()

	if *metricsAddr != "" {
		metrics.StartMetricsServer(*metricsAddr)
	}

	httpCli := gateway.NewDefaultHTTPClient()
	if *insecureTLS {
		httpCli = gateway.NewInsecureHTTPClient()
		fmt.Println("WARNING: TLS certificate verification is disabled.")
	}

	client := &gateway.DeribitRESTClient{
		BaseURL:      cfg.API.APIUrl,
		ClientID:     cfg.API.ClientID,
		ClientSecret: cfg.API.ClientSecret,
		HTTPClient:   httpCli,
		Ledger:       order.NewLedger(),
		Logger:       appLog,
	}

	session, err := gateway.NewSession(client)
	if err != nil {
		log.Fatalf("获取 access token 失败: %v", err)
	}
	logEvent("auth_ok", map[string]interface{}{"api_url": cfg.API.APIUrl})

	if *watchConfig {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			w := config.Watcher{Path: *cfgPath}
			_ = w.Start(ctx, func(config.AppConfig) {
				logEvent("config_changed", map[string]interface{}{"path": *cfgPath})
				fmt.Println("Config file changed on disk; restart to apply new credentials.")
			})
		}()
	}

	runMenu(bufio.NewReader(os.Stdin), session)
}

func runMenu(in *bufio.Reader, session *gateway.Session) {
	for {
		fmt.Println("\n--- Deribit Trading Terminal ---")
		fmt.Println("1. Place Order")
		fmt.Println("2. Cancel Order")
		fmt.Println("3. Modify Order")
		fmt.Println("4. View Order Book")
		fmt.Println("5. View Current Positions")
		fmt.Println("6. View Orders")
		fmt.Println("7. Exit")

		switch readLine(in, "Choose an option (1-7): ") {
		case "1":
			placeOrderAction(in, session)
		case "2":
			cancelOrderAction(in, session)
		case "3":
			modifyOrderAction(in, session)
		case "4":
			orderBookAction(in, session)
		case "5":
			positionsAction(session)
		case "6":
			listOrders(session)
		case "7":
			fmt.Println("Exiting...")
			return
		default:
			fmt.Println("Invalid choice, please try again.")
		}
	}
}

func placeOrderAction(in *bufio.Reader, session *gateway.Session) {
	symbol := readLine(in, "Enter symbol (e.g., BTC-PERPETUAL): ")
	amount, err := readDecimal(in, "Enter amount: ")
	if err != nil {
		fmt.Println("Invalid amount:", err)
		return
	}
	priceType := readLine(in, "Enter order type (e.g., market, limit): ")
	side := readLine(in, "Buy or sell: ")

	id, err := session.PlaceOrder(symbol, amount, priceType, side)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSide) {
			fmt.Println("Invalid side, must be buy or sell.")
			return
		}
		reportError("place order failed", err)
		return
	}
	logEvent("order_place", map[string]interface{}{
		"symbol": symbol, "side": side, "amount": amount.String(), "order_id": id,
	})
	fmt.Println("Order placed with ID:", id)
}

func cancelOrderAction(in *bufio.Reader, session *gateway.Session) {
	orderID := readLine(in, "Enter order ID to cancel: ")
	outcome, err := session.CancelOrder(orderID)
	if err != nil {
		reportError("cancel order failed", err)
		return
	}
	if outcome.NotOpen {
		fmt.Println("Order cannot be canceled because it is not an open order.")
		return
	}
	logEvent("order_cancel", map[string]interface{}{"order_id": orderID, "state": outcome.State})
	fmt.Println("Order", outcome.State)
}

func modifyOrderAction(in *bufio.Reader, session *gateway.Session) {
	orderID := readLine(in, "Enter order ID to modify: ")
	amount, err := readDecimal(in, "Enter new amount: ")
	if err != nil {
		fmt.Println("Invalid amount:", err)
		return
	}
	price, err := readDecimal(in, "Enter new price: ")
	if err != nil {
		fmt.Println("Invalid price:", err)
		return
	}

	outcome, err := session.ModifyOrder(orderID, amount, price)
	if err != nil {
		reportError("modify order failed", err)
		return
	}
	if outcome.NotOpen {
		fmt.Println("Order cannot be modified because it is not an open order.")
		return
	}
	logEvent("order_modify", map[string]interface{}{
		"order_id": outcome.OrderID, "amount": amount.String(), "price": price.String(),
	})
	fmt.Println("Order modified, new entry ID:", outcome.OrderID)
}

func orderBookAction(in *bufio.Reader, session *gateway.Session) {
	symbol := readLine(in, "Enter symbol (e.g., BTC-PERPETUAL): ")
	book, err := session.OrderBook(symbol)
	if err != nil {
		reportError("order book query failed", err)
		return
	}
	logEvent("book_snapshot", map[string]interface{}{
		"symbol": book.Instrument, "bid": book.BestBidPrice, "ask": book.BestAskPrice,
	})
	fmt.Printf("Order Book for %s:\n", book.Instrument)
	fmt.Printf("Best Bid: %v (Amount: %v)\n", book.BestBidPrice, book.BestBidAmount)
	fmt.Printf("Best Ask: %v (Amount: %v)\n", book.BestAskPrice, book.BestAskAmount)
	fmt.Printf("Last Price: %v\n", book.LastPrice)
	fmt.Printf("Mark Price: %v\n", book.MarkPrice)
	fmt.Printf("Volume: %v\n", book.Volume)
	fmt.Printf("Low: %v\n", book.Low)
	fmt.Printf("High: %v\n", book.High)
}

func positionsAction(session *gateway.Session) {
	positions, err := session.Positions()
	if err != nil {
		reportError("positions query failed", err)
		return
	}
	logEvent("positions", map[string]interface{}{"count": len(positions)})
	if len(positions) == 0 {
		fmt.Println("No open positions.")
		return
	}
	fmt.Println("Current Positions:")
	for _, p := range positions {
		fmt.Printf("Instrument: %s\n", p.Instrument)
		fmt.Printf("Direction: %s\n", p.Direction)
		fmt.Printf("Size: %v\n", p.Size)
		fmt.Printf("Average Price: %v\n", p.AveragePrice)
		fmt.Printf("Mark Price: %v\n", p.MarkPrice)
		fmt.Printf("Floating P/L: %v\n", p.FloatingPnL)
		fmt.Printf("Leverage: %v\n\n", p.Leverage)
	}
}

func listOrders(session *gateway.Session) {
	orders := session.Orders()
	if len(orders) == 0 {
		fmt.Println("No orders found.")
		return
	}
	fmt.Println("Current Orders:")
	for _, o := range orders {
		fmt.Printf("Order ID: %s, Side: %s, Amount: %s, Symbol: %s, Placed: %s\n",
			o.ID, o.Side, o.Amount.String(), o.Symbol, o.PlacedAt.Format("15:04:05"))
	}
}

func readLine(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func readDecimal(in *bufio.Reader, prompt string) (decimal.Decimal, error) {
	return decimal.NewFromString(readLine(in, prompt))
}

func reportError(msg string, err error) {
	appLog.LogError(err, map[string]interface{}{"context": msg})
	fmt.Printf("%s: %v\n", msg, err)
}

// logEvent 经过 schema 校验后输出结构化事件。
func logEvent(event string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err := logschema.Validate(event, fields); err != nil {
		fields["_schema_error"] = err.Error()
	}
	appLog.LogEvent(event, fields)
}
