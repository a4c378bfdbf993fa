package discord

import (
	"fmt"
	"strings"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

// Result rendering for the chat channel. Every renderer switches on the
// result's status tag exhaustively; an unknown tag is a programming error,
// not a user-visible outcome.

const historyTimeFormat = "2006-01-02 15:04"

func unhandledStatus(status any) string {
	panic(fmt.Sprintf("unhandled result status: %v", status))
}

var commandHelp = [][2]string{
	{"/help", "view this output"},
	{"/register", "create account to track products"},
	{"/add {name}, {url}", "add product to track, notice the comma"},
	{"/remove {name}", "remove product from tracking"},
	{"/update", "manually update product prices"},
	{"/list", "list tracked products"},
	{"/history {name}", "view price history of the product"},
}

func helpMessage() string {
	var sb strings.Builder
	sb.WriteString("Welcome, the available commands are as follows:\n")
	for _, entry := range commandHelp {
		fmt.Fprintf(&sb, "\n%s - %s", entry[0], entry[1])
	}
	return sb.String()
}

// RenderRegister renders the outcome of /register.
func RenderRegister(res ports.RegisterResult, username string) string {
	switch res.Status {
	case ports.RegisterSuccess:
		return fmt.Sprintf("Created new user, hi %s!", username)
	case ports.RegisterDuplicate:
		return fmt.Sprintf("You are already registered, %s.", username)
	case ports.RegisterError:
		return somethingWentWrong(res.Err)
	default:
		return unhandledStatus(res.Status)
	}
}

// RenderAddProduct renders the outcome of /add.
func RenderAddProduct(res ports.AddProductResult, name string) string {
	switch res.Status {
	case ports.AddSuccess:
		return fmt.Sprintf("Tracking %s!", name)
	case ports.AddNotRegistered:
		return "You need to /register to add products."
	case ports.AddNameMissing:
		return "You need to provide a name for the product: /add {name}, {url}"
	case ports.AddURLMissing:
		return "You need to provide a url for the product: /add {name}, {url}"
	case ports.AddProductExists:
		return "You are already tracking this product."
	case ports.AddUnableToScrape:
		return "Product not tracked, because I am unable to scrape the price."
	case ports.AddError:
		return somethingWentWrong(res.Err)
	default:
		return unhandledStatus(res.Status)
	}
}

// RenderRemoveProduct renders the outcome of /remove.
func RenderRemoveProduct(res ports.RemoveProductResult, name string) string {
	switch res.Status {
	case ports.RemoveSuccess:
		return fmt.Sprintf("No longer tracking %s.", name)
	case ports.RemoveNotRegistered:
		return "You need to /register and track something to remove products."
	case ports.RemoveNameMissing:
		return "You need to provide a name for the product: /remove {name}"
	case ports.RemoveProductNotFound:
		return "This product is not being tracked."
	case ports.RemoveError:
		return somethingWentWrong(res.Err)
	default:
		return unhandledStatus(res.Status)
	}
}

// RenderUpdate renders the outcome of /update.
func RenderUpdate(res ports.UpdateResult) string {
	switch res.Status {
	case ports.UpdateSuccess:
		if res.Attempted == 0 {
			return "You aren't tracking any products."
		}
		if len(res.Changed) == 0 {
			return "Product prices checked, no updates."
		}
		var sb strings.Builder
		sb.WriteString("Some of your tracked products' prices changed:")
		for _, change := range res.Changed {
			fmt.Fprintf(&sb, "\n%s: %s -> %s", change.Name, change.OldPrice, change.NewPrice)
		}
		return sb.String()
	case ports.UpdateNotRegistered:
		return "You need to /register and track something to update product prices."
	case ports.UpdateError:
		return somethingWentWrong(res.Err)
	default:
		return unhandledStatus(res.Status)
	}
}

// RenderList renders the outcome of /list.
func RenderList(res ports.ListResult) string {
	switch res.Status {
	case ports.ListSuccess:
		if len(res.Products) == 0 {
			return "You aren't tracking any products!"
		}
		var sb strings.Builder
		sb.WriteString("Your tracked products:")
		for _, product := range res.Products {
			fmt.Fprintf(&sb, "\n%s, %s, <%s>", product.Name, product.Price, product.URL)
		}
		return sb.String()
	case ports.ListNotRegistered:
		return "You need to /register and track something to list products."
	case ports.ListError:
		return somethingWentWrong(res.Err)
	default:
		return unhandledStatus(res.Status)
	}
}

// RenderHistory renders the outcome of /history as the compressed
// changed-only timeline.
func RenderHistory(res ports.HistoryResult, name string) string {
	switch res.Status {
	case ports.HistorySuccess:
		rows, err := domain.CompressHistory(res.Product.Name, res.Points)
		if err != nil {
			return somethingWentWrong(err)
		}
		var lines []string
		for row := range rows {
			switch row.Kind {
			case domain.RowHeader:
				lines = append(lines, fmt.Sprintf(
					"%s has the following price history (%d datapoints):", row.Name, row.Points))
			case domain.RowCurrent:
				lines = append(lines, fmt.Sprintf("(Current price): %s", row.Price))
			case domain.RowSeparator:
				lines = append(lines, "...")
			case domain.RowPrice:
				lines = append(lines, fmt.Sprintf("(%s): %s",
					row.CreatedAt.Format(historyTimeFormat), row.Price))
			}
		}
		return strings.Join(lines, "\n")
	case ports.HistoryNotRegistered:
		return "You need to /register and track products to view history."
	case ports.HistoryNameMissing:
		return "You need to provide a name for the product: /history {name}"
	case ports.HistoryNameNotFound:
		return fmt.Sprintf("You are not tracking a product with the name: %s", name)
	case ports.HistoryError:
		return somethingWentWrong(res.Err)
	default:
		return unhandledStatus(res.Status)
	}
}

func somethingWentWrong(err error) string {
	return fmt.Sprintf("Something went wrong: %v", err)
}

// ChunkMessage splits a message into chunks of at most limit characters
// so it fits the transport's per-message cap. The cap counts characters,
// not bytes, and a cut inside a multi-byte rune would produce invalid
// UTF-8 the transport rejects, so chunks only break on rune boundaries.
func ChunkMessage(message string, limit int) []string {
	runes := []rune(message)
	if limit <= 0 || len(runes) <= limit {
		return []string{message}
	}

	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(chunks, string(runes))
}
