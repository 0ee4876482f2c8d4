package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterPrompts adds the workflow templates that guide a model through
// multi-step tool usage.
func RegisterPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("find_deals",
		mcp.WithPromptDescription("Find the best deals for a specific item type within a budget"),
		mcp.WithArgument("item_type",
			mcp.ArgumentDescription("What to search for (e.g. \"laptop\", \"bicycle\", \"furniture\")"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("max_budget",
			mcp.ArgumentDescription("Maximum price in EUR"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("location",
			mcp.ArgumentDescription("Location or postal code for local search"),
		),
	), handleFindDeals)

	s.AddPrompt(mcp.NewPrompt("compare_listings",
		mcp.WithPromptDescription("Compare multiple listings side-by-side"),
		mcp.WithArgument("listing_ids",
			mcp.ArgumentDescription("Comma-separated listing IDs to compare (e.g. \"123,456,789\")"),
			mcp.RequiredArgument(),
		),
	), handleCompareListings)

	s.AddPrompt(mcp.NewPrompt("monitor_search",
		mcp.WithPromptDescription("Set up a search monitoring strategy for new listings"),
		mcp.WithArgument("query",
			mcp.ArgumentDescription("Search keywords"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("location",
			mcp.ArgumentDescription("Optional location filter"),
		),
		mcp.WithArgument("max_price",
			mcp.ArgumentDescription("Optional maximum price in EUR"),
		),
	), handleMonitorSearch)
}

func handleFindDeals(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	itemType := req.Params.Arguments["item_type"]
	maxBudget := req.Params.Arguments["max_budget"]
	location := req.Params.Arguments["location"]
	if location == "" {
		location = "Germany"
	}

	text := fmt.Sprintf(`You are helping a user find the best deals for %[1]s on Kleinanzeigen.

**User Requirements:**
- Item: %[1]s
- Maximum Budget: %[2]s€
- Location: %[3]s

**Your Task:**
1. Use search_listings to find available %[1]s items under %[2]s€ in %[3]s
2. Sort results mentally by value (price vs. features/condition)
3. For the top 3-5 most promising listings, use get_listing_details to get full information
4. Compare and present:
   - Price comparison
   - Condition analysis
   - Location/delivery convenience
   - Seller reputation indicators
5. Provide a recommendation with reasoning

**Output Format:**
- Summary table of best options
- Detailed analysis of top recommendation
- Pros/cons for each option
- Action steps for the user

Begin your search now.`, itemType, maxBudget, location)

	return mcp.NewGetPromptResult(
		"Deal-finding workflow for "+itemType,
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}

func handleCompareListings(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var ids []string
	for _, id := range strings.Split(req.Params.Arguments["listing_ids"], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	text := fmt.Sprintf(`You are helping a user compare multiple Kleinanzeigen listings.

**Listings to Compare:**
%s

**Your Task:**
1. Use get_listing_details for each listing ID
2. Create a comparison table with:
   - Price
   - Condition/Status
   - Location & Delivery
   - Key Features
   - Seller Information
3. Highlight:
   - Best value for money
   - Most convenient option
   - Any concerns or red flags
4. Provide a clear recommendation

**Output Format:**
- Side-by-side comparison table
- Key differences highlighted
- Recommendation with reasoning
- Questions user should ask sellers

Begin the comparison now.`, strings.Join(ids, ", "))

	return mcp.NewGetPromptResult(
		"Listing comparison workflow",
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}

func handleMonitorSearch(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := req.Params.Arguments["query"]
	location := req.Params.Arguments["location"]
	maxPrice := req.Params.Arguments["max_price"]

	filters := "query: " + query
	if location != "" {
		filters += ", location: " + location
	}
	if maxPrice != "" && maxPrice != "0" {
		filters += ", max price: " + maxPrice + "€"
	}

	text := fmt.Sprintf(`You are helping a user monitor new listings on Kleinanzeigen.

**Search Parameters:**
%s

**Your Task:**
1. Run search_listings with these parameters to establish a baseline
2. Note the listing IDs currently present
3. Explain to the user how to re-run this search to spot new entries
4. Suggest refinements if the result set is too large or too small

**Output Format:**
- Baseline summary with current listing count
- The exact filter set used
- Recommended check frequency
- Suggested refinements

Begin by establishing the baseline now.`, filters)

	return mcp.NewGetPromptResult(
		"Search monitoring workflow",
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}
