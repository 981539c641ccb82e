package email

const welcomeSubject = "Welcome to Bizlist!"

func (c *Client) SendWelcomeEmail(to, firstName string) error {
	return c.SendEmail(to, welcomeSubject, TemplateWelcome, map[string]string{
		"UserFirstName": firstName,
	})
}
