package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fintrack-cli",
		Short: "FinTrack CLI tool",
		Long:  `A command line interface for interacting with the FinTrack API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FinTrack API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(purchaseCommand())
	rootCmd.AddCommand(entryCommand())
	rootCmd.AddCommand(entriesCommand())
	rootCmd.AddCommand(seriesCommand())
	rootCmd.AddCommand(summaryCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func purchaseCommand() *cobra.Command {
	var (
		description   string
		totalAmount   string
		installments  int
		startDate     string
		paymentMethod string
	)

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record a credit purchase split into monthly installments",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"description":        description,
				"total_amount":       json.Number(totalAmount),
				"total_installments": installments,
				"start_date":         startDate,
			}
			if paymentMethod != "" {
				body["payment_method"] = paymentMethod
			}

			postJSON("/api/v1/purchases", body)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What was bought")
	cmd.Flags().StringVar(&totalAmount, "total", "", "Total purchase amount")
	cmd.Flags().IntVar(&installments, "installments", 1, "Number of monthly installments")
	cmd.Flags().StringVar(&startDate, "start", time.Now().Format("2006-01-02"), "Date of the first installment (YYYY-MM-DD)")
	cmd.Flags().StringVar(&paymentMethod, "method", "", "Payment method")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("total")

	return cmd
}

func entryCommand() *cobra.Command {
	var (
		description   string
		amount        string
		date          string
		paymentMethod string
	)

	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record a one-off entry outside any installment series",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"description": description,
				"amount":      json.Number(amount),
				"date":        date,
			}
			if paymentMethod != "" {
				body["payment_method"] = paymentMethod
			}

			postJSON("/api/v1/entries", body)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What the entry is for")
	cmd.Flags().StringVar(&amount, "amount", "", "Entry amount")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&paymentMethod, "method", "", "Payment method")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func entriesCommand() *cobra.Command {
	var (
		seriesID         string
		status           string
		onlyInstallments bool
		limit            int
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List ledger entries",
		Run: func(cmd *cobra.Command, args []string) {
			q := url.Values{}
			if seriesID != "" {
				q.Set("series_id", seriesID)
			}
			if status != "" {
				q.Set("status", status)
			}
			if onlyInstallments {
				q.Set("installments", "true")
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}

			path := "/api/v1/entries"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			getJSON(path)
		},
	}

	cmd.Flags().StringVar(&seriesID, "series", "", "Filter by series ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, completed, cancelled)")
	cmd.Flags().BoolVar(&onlyInstallments, "installments", false, "Only installment entries")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries")

	return cmd
}

func seriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Purchase series operations",
	}

	showCmd := &cobra.Command{
		Use:   "show <series-id>",
		Short: "Show every installment of a series",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/series/" + url.PathEscape(args[0]))
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <series-id>",
		Short: "Cancel the still-pending installments of a series",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/series/"+url.PathEscape(args[0])+"/cancel", nil)
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.AddCommand(showCmd)
	cmd.AddCommand(cancelCmd)

	return cmd
}

func summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the installment commitment roll-up",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/summary")
		},
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, body any) {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Error encoding request: %v\n", err)
			os.Exit(1)
		}
		reader = strings.NewReader(string(raw))
	}

	resp, err := client.Post(baseURL+path, "application/json", reader)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	raw, _ := io.ReadAll(resp.Body)

	var pretty map[string]any
	if err := json.Unmarshal(raw, &pretty); err == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		raw = out
	}

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\n%s\n", resp.StatusCode, raw)
		os.Exit(1)
	}

	fmt.Println(string(raw))
}
