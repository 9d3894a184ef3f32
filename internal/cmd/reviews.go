package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/rating"
	"github.com/Josh-Grafman/boatrental/internal/views"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Read and write boat reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list <boat-id>",
	Short: "List a boat's reviews, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsList,
}

var reviewsAddCmd = &cobra.Command{
	Use:   "add <boat-id>",
	Short: "Review a boat",
	Long: `Review a boat with a subject, an optional comment and 0 to 5 stars.

Example:
  boatrental reviews add b-sea-breeze --subject "Great boat" --rating 5`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewsAdd,
}

var (
	reviewsJSON    bool
	reviewsSubject string
	reviewsComment string
	reviewsRating  int
	reviewsAuthor  string
)

func init() {
	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.AddCommand(reviewsListCmd, reviewsAddCmd)

	reviewsListCmd.Flags().BoolVar(&reviewsJSON, "json", false, "Print JSON instead of text")

	reviewsAddCmd.Flags().StringVarP(&reviewsSubject, "subject", "s", "", "Review subject (required)")
	reviewsAddCmd.Flags().StringVarP(&reviewsComment, "comment", "m", "", "Review text")
	reviewsAddCmd.Flags().IntVarP(&reviewsRating, "rating", "r", 0, "Stars from 0 to 5")
	reviewsAddCmd.Flags().StringVar(&reviewsAuthor, "author", "", "Sign the review as (default: reviews.author)")
}

func runReviewsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	deps, notices := env.viewDeps(cmd.ErrOrStderr())
	list := views.NewReviewsView(env.svc, deps)
	defer list.Close()
	list.Load(args[0])
	if err := notices.Err(); err != nil {
		return err
	}

	if reviewsJSON {
		reviews := list.Reviews()
		if reviews == nil {
			reviews = []boat.Review{}
		}
		return printJSON(out, reviews)
	}
	if !list.HasReviews() {
		fmt.Fprintln(out, "No reviews yet.")
		return nil
	}
	for _, r := range list.Reviews() {
		stars := rating.New(rating.Options{Value: r.Rating, Max: boat.MaxRating, ReadOnly: true})
		byline := r.CreatedAt.Format("Jan 2, 2006")
		if r.CreatedByName != "" {
			byline = r.CreatedByName + " · " + byline
		}
		fmt.Fprintf(out, "%s %s\n  %s\n", stars.String(), r.Subject, byline)
		if r.Comment != "" {
			fmt.Fprintf(out, "  %s\n", strings.ReplaceAll(r.Comment, "\n", "\n  "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runReviewsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if reviewsRating < 0 || reviewsRating > boat.MaxRating {
		return errors.NewValidationError("Rating must be between 0 and 5").
			WithField("rating").WithValue(reviewsRating)
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if _, err := env.svc.Boat(ctx, args[0]); err != nil {
		return err
	}

	author := reviewsAuthor
	if author == "" {
		author = env.cfg.Reviews.ResolveAuthor()
	}

	deps, notices := env.viewDeps(out)
	form := views.NewReviewForm(args[0], env.svc, deps)
	defer form.Close()
	form.SetAuthor(author)
	form.SetSubject(reviewsSubject)
	form.SetComment(reviewsComment)
	form.Rating().Set(reviewsRating)
	form.Submit()

	if err := form.Err(); err != nil {
		return err
	}
	if err := notices.Err(); err != nil {
		return err
	}
	if created, ok := form.LastCreated(); ok {
		env.logger.Info("review added from cli", "boat_id", created.BoatID, "review_id", created.ID)
		fmt.Fprintf(out, "Review %s saved for %s\n", created.ID, created.BoatID)
	}
	return nil
}
