package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"cleansched/internal/client"
)

// schedulerctl is a small operator console over the scheduler API. With
// REDIS_ADDR set it shares its query cache across invocations; otherwise each
// run caches in memory only.
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := envOr("API_URL", "http://localhost:8080")
	token := os.Getenv("API_TOKEN")

	var cache client.QueryCache = client.NewMemoryCache()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: addr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			fmt.Fprintf(os.Stderr, "redis unavailable, falling back to memory cache: %v\n", err)
		} else {
			cache = client.NewRedisCache(redisClient, 5*time.Minute)
		}
	}

	c := client.New(baseURL, token, cache, client.NopNotifier{})
	ctx := context.Background()

	var (
		result interface{}
		err    error
	)
	switch os.Args[1] {
	case "orders":
		sortBy, search := arg(2), arg(3)
		result, err = c.ListOrders(ctx, sortBy, search)
	case "order":
		result, err = c.GetOrder(ctx, arg(2))
	case "staff":
		result, err = c.ListStaff(ctx, arg(2))
	case "month":
		year, month := mustInt(arg(2)), mustInt(arg(3))
		result, err = c.OrdersByMonth(ctx, year, month)
	case "day":
		year, month, day := mustInt(arg(2)), mustInt(arg(3)), mustInt(arg(4))
		result, err = c.OrdersByDay(ctx, year, month, day)
	case "statistics":
		result, err = c.Statistics(ctx)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	encoded, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(encoded))
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: schedulerctl <command> [args]

commands:
  orders [sortBy] [search]   list orders
  order <id>                 show one order
  staff [search]             list staff
  month <year> <month>       calendar month view
  day <year> <month> <day>   calendar day view
  statistics                 aggregate statistics`)
}

func arg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "not a number: %s\n", s)
		os.Exit(2)
	}
	return n
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
