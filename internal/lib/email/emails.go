package email

import "context"

// SendWelcomeEmail greets a user who just signed up.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return c.SendEmail(ctx, to, "Welcome to Meetapp!", TemplateWelcome, map[string]string{
		"UserName": name,
	})
}
