package main

import (
	"github.com/spf13/cobra"

	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
)

func newCreateCmd() *cobra.Command {
	var (
		req       app.CreateSubscriptionRequest
		trialDays int64
		quantity  int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a subscription, resolving or creating the customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("trial-days") {
				req.TrialPeriodDays = &trialDays
			}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = &quantity
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.CreateSubscription(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "customer email")
	f.StringVar(&req.FullName, "name", "", "customer full name")
	f.StringVar(&req.PriceID, "price", "", "price id to subscribe to")
	f.StringVar(&req.PaymentMethodID, "payment-method", "", "payment method id to attach")
	f.StringVar(&req.CustomerID, "customer", "", "existing customer id")
	f.Int64Var(&trialDays, "trial-days", 0, "trial length in days")
	f.Int64Var(&quantity, "quantity", 1, "item quantity")
	f.StringToStringVar(&req.Metadata, "metadata", nil, "metadata as key=value pairs")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <subscription-id>",
		Short: "Show a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.GetSubscription(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newUpdateCmd() *cobra.Command {
	var (
		req               app.UpdateSubscriptionRequest
		quantity          int64
		cancelAtPeriodEnd bool
		trialEnd          int64
	)
	cmd := &cobra.Command{
		Use:   "update <subscription-id>",
		Short: "Change the price, quantity or billing options of a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("quantity") {
				req.Quantity = &quantity
			}
			if f.Changed("cancel-at-period-end") {
				req.CancelAtPeriodEnd = &cancelAtPeriodEnd
			}
			if f.Changed("trial-end") {
				req.TrialEnd = &trialEnd
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.UpdateSubscription(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.NewPriceID, "price", "", "new price id")
	f.Int64Var(&quantity, "quantity", 1, "new item quantity")
	f.BoolVar(&cancelAtPeriodEnd, "cancel-at-period-end", false, "cancel when the current period ends")
	f.Int64Var(&trialEnd, "trial-end", 0, "trial end as a Unix timestamp")
	f.StringToStringVar(&req.Metadata, "metadata", nil, "metadata as key=value pairs")
	return cmd
}

func newCancelCmd() *cobra.Command {
	var immediate bool
	cmd := &cobra.Command{
		Use:   "cancel <subscription-id>",
		Short: "Cancel a subscription at period end, or now with --immediate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.CancelSubscription(cmd.Context(), args[0], immediate)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&immediate, "immediate", false, "cancel now instead of at period end")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <customer-id>",
		Short: "List a customer's subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.ListCustomerSubscriptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <subscription-id>",
		Short: "Report whether a subscription is active or trialing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"subscriptionId": args[0],
				"isValid":        svc.ValidateSubscription(cmd.Context(), args[0]),
			})
		},
	}
}
